package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration. Each field corresponds to an
// environment variable; a .env file is honoured when present.
type Config struct {
	HTTPAddr    string // address for the trigger API
	GatewayAddr string // base URL of the box office network gateway
	SinkAddr    string // base URL of the notification sink
	RedisAddr   string
	PostgresURL string
}

func Load() Config {
	_ = godotenv.Load()

	gatewayAddr := must("GATEWAY_ADDR")

	return Config{
		HTTPAddr:    getEnvOrDefault("HTTP_ADDR", ":8080"),
		GatewayAddr: gatewayAddr,
		SinkAddr:    getEnvOrDefault("SINK_ADDR", gatewayAddr),
		RedisAddr:   must("REDIS_ADDR"),
		PostgresURL: must("POSTGRES_URL"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logrus.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getEnvOrDefault(key string, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
