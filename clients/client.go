package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"boxoffice/log"
)

const headerKeyCorrelationID = "Correlation-ID"

// Clients is the shared HTTP transport for the gateway collaborators. Every
// request carries the caller's correlation ID and is cancelled when its
// context is cancelled.
type Clients struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) (*Clients, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway address is empty")
	}

	return &Clients{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Clients) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerKeyCorrelationID, log.CorrelationIDFromContext(ctx))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode >= http.StatusMultipleChoices {
		return errorFromResponse(res)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
	}

	return nil
}

// errorFromResponse surfaces the server's reason text verbatim so that the
// coordinators can include it in user-facing notifications.
func errorFromResponse(res *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(res.Body, 1024))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Reason != "" {
		return fmt.Errorf("%s", payload.Reason)
	}

	return fmt.Errorf("%s", strings.TrimSpace(string(body)))
}
