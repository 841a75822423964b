package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/path"
	"github.com/joho/godotenv"
)

type IConfig interface {
	Get(key string) string
}

type Config struct {
	Key map[string]string
	Env string
}

// prefixed keys are read as <ENV>_<KEY>, everything else as-is.
var prefixed = []string{
	"POSTGRES_DB_NAME",
	"POSTGRES_USER",
	"POSTGRES_PASSWORD",
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"REDIS_HOST",
	"REDIS_PORT",
	"API_BASE_URL",
	"SOCKET_URL",
	"NATS_URL",
	"S3_ENDPOINT",
	"S3_REGION",
	"S3_BUCKET",
	"S3_ACCESS_KEY",
	"S3_SECRET_KEY",
}

var defaults = map[string]string{
	"PORT":                         "8080",
	"LOG_LEVEL":                    "info",
	"HTTP_TIMEOUT":                 "30s",
	"DISCOVERY_BATCH_SIZE":         "10",
	"DISCOVERY_PREFETCH_THRESHOLD": "2",
	"ON_ACTION_FAILURE":            "advance",
	"ACTION_MAX_RETRIES":           "3",
	"CONVERSATION_POLL_INTERVAL":   "30s",
	"S3_REGION":                    "us-east-1",
	"CORS_ALLOWED_ORIGINS":         "*",
	"SHUTDOWN_TIMEOUT":             "10s",
}

// NewConfig loads .env (searched upward from the working directory) when
// present and reads the process environment. A missing .env is not an error.
func NewConfig(env string) (*Config, error) {
	env = strings.ToUpper(env)

	basePath, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	if root, err := path.FindRoot(basePath, ".env", false); err == nil {
		if err := godotenv.Load(root + "/.env"); err != nil {
			return nil, err
		}
	}

	key := map[string]string{}
	for _, k := range prefixed {
		key[k] = getEnv(env+"_"+k, defaults[k])
	}
	for k, def := range defaults {
		if _, ok := key[k]; !ok {
			key[k] = getEnv(k, def)
		}
	}

	return &Config{Key: key, Env: env}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) Get(key string) string {
	return c.Key[key]
}

func (c *Config) GetInt(key string, fallback int) int {
	v, err := strconv.Atoi(c.Key[key])
	if err != nil {
		return fallback
	}
	return v
}

func (c *Config) GetDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(c.Key[key])
	if err != nil {
		return fallback
	}
	return v
}
