package log

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	correlationIDKey ctxKey = iota
	loggerKey
)

func Init(level logrus.Level) {
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

func CorrelationIDFromContext(ctx context.Context) string {
	correlationID, ok := ctx.Value(correlationIDKey).(string)
	if !ok {
		return ""
	}
	return correlationID
}

func ToContext(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a default entry carrying
// the context's correlation ID.
func FromContext(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(loggerKey).(*logrus.Entry)
	if ok {
		return logger
	}

	entry := logrus.NewEntry(logrus.StandardLogger())
	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		entry = entry.WithField("correlation_id", correlationID)
	}
	return entry
}

// CorrelationPublisherDecorator stamps outgoing messages with the
// correlation ID from their context.
type CorrelationPublisherDecorator struct {
	message.Publisher
}

func (d CorrelationPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for i := range messages {
		if middleware.MessageCorrelationID(messages[i]) != "" {
			continue
		}
		middleware.SetCorrelationID(CorrelationIDFromContext(messages[i].Context()), messages[i])
	}
	return d.Publisher.Publish(topic, messages...)
}
