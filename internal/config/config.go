package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the function.
type Config struct {
	Environment   string
	ServiceName   string
	SleepDuration time.Duration
	Log           LogConfig
	Tracing       TracingConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  logrus.Level
	Format string // "json" or "text"
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	Enabled bool
}

// Load loads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVICE_NAME", "hello-world")
	viper.SetDefault("SLEEP_DURATION", "1s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", defaultLogFormat())
	viper.SetDefault("TRACING_ENABLED", true)

	sleep, err := time.ParseDuration(viper.GetString("SLEEP_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLEEP_DURATION: %w", err)
	}
	if sleep < 0 {
		return nil, fmt.Errorf("invalid SLEEP_DURATION: negative duration %s", sleep)
	}

	level, err := logrus.ParseLevel(viper.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		Environment:   viper.GetString("ENVIRONMENT"),
		ServiceName:   viper.GetString("SERVICE_NAME"),
		SleepDuration: sleep,
		Log: LogConfig{
			Level:  level,
			Format: viper.GetString("LOG_FORMAT"),
		},
		Tracing: TracingConfig{
			Enabled: viper.GetBool("TRACING_ENABLED"),
		},
	}, nil
}

// IsLambda detects if the application is running in AWS Lambda.
func IsLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// FunctionName returns the Lambda function name, falling back to the
// configured service name outside Lambda.
func (c *Config) FunctionName() string {
	if name := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); name != "" {
		return name
	}
	return c.ServiceName
}

func defaultLogFormat() string {
	if IsLambda() {
		return "json"
	}
	return "text"
}
