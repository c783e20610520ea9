package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline handlers
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	LogLevel    string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	ServiceName string `validate:"required"`
	Publisher   PublisherConfig
	Batch       BatchConfig
	RateLimit   RateLimitConfig
}

// PublisherConfig selects and configures the event stream publisher
type PublisherConfig struct {
	Type        string `validate:"required,oneof=kinesis sqlite mock"`
	StreamName  string `validate:"required_if=Type kinesis"`
	Region      string `validate:"required_if=Type kinesis"`
	SQLitePath  string `validate:"required_if=Type sqlite"`
	MaxAttempts int    `validate:"min=1,max=10"`
}

// BatchConfig controls Firehose batch transformation
type BatchConfig struct {
	// Strict fails the whole batch when any single record cannot be decoded
	Strict bool
}

// RateLimitConfig holds the development server rate limit
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gt=0"`
	Burst             int     `validate:"min=1"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVICE_NAME", "event-collector")
	viper.SetDefault("KINESIS_STREAM_NAME", "url-events")
	viper.SetDefault("PUBLISHER_TYPE", "kinesis")
	viper.SetDefault("SQLITE_PATH", "./data/events.db")
	viper.SetDefault("PUBLISH_MAX_ATTEMPTS", 3)
	viper.SetDefault("STRICT_BATCH", false)
	viper.SetDefault("RATE_LIMIT_RPS", 50)
	viper.SetDefault("RATE_LIMIT_BURST", 100)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		LogLevel:    strings.ToLower(viper.GetString("LOG_LEVEL")),
		ServiceName: viper.GetString("SERVICE_NAME"),
		Publisher: PublisherConfig{
			Type:        strings.ToLower(viper.GetString("PUBLISHER_TYPE")),
			StreamName:  viper.GetString("KINESIS_STREAM_NAME"),
			Region:      region(),
			SQLitePath:  viper.GetString("SQLITE_PATH"),
			MaxAttempts: viper.GetInt("PUBLISH_MAX_ATTEMPTS"),
		},
		Batch: BatchConfig{
			Strict: viper.GetBool("STRICT_BATCH"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// region prefers the explicit REGION setting over the Lambda-provided AWS_REGION
func region() string {
	if r := viper.GetString("REGION"); r != "" {
		return r
	}
	return GetEnv("AWS_REGION", "us-east-1")
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the configured environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConfigureLogging applies the log level and picks a formatter. Lambda logs
// are shipped to CloudWatch as JSON.
func ConfigureLogging(c *Config) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if IsServerlessMode() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
