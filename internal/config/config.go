package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr       string
	DBPath         string
	RabbitURL      string
	RabbitExchange string
	LogLevel       string
}

// Load reads the environment, after an optional .env for local runs. A
// missing .env is not an error. Empty DBPath or RabbitURL disables the
// corresponding collaborator.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "./bookshop.db"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "domain_events"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
