package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"timeboss-backend/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

var storeDrivers = map[string]bool{"memory": true, "file": true, "dynamodb": true, "postgres": true}

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper.
// Precedence: environment (including .env) > config.json > defaults.
func Load() (*models.Config, error) {
	// .env is optional; existing environment variables win
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	flattenNestedConfig(v)

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("app_name", "TimeBoss Backend")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "4000")

	// JWT defaults
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expires_in", 12*time.Hour)

	// Store defaults
	v.SetDefault("store_driver", "memory")
	v.SetDefault("store_data_dir", "./data")

	// AWS defaults
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")
	v.SetDefault("tables", []string{"crews", "jobs", "clients", "users"})

	v.SetDefault("postgres_dsn", "")

	v.SetDefault("redis_url", "")
	v.SetDefault("redis_channel", "timeboss:notifications")

	// Notification defaults
	v.SetDefault("notify_queue_size", 256)
	v.SetDefault("notify_workers", 2)
	v.SetDefault("notify_send_timeout", 10*time.Second)
	v.SetDefault("notify_webhook_url", "")
	v.SetDefault("notify_webhook_secret", "")
	v.SetDefault("admin_email", "")

	// Planner defaults; an empty key disables it
	v.SetDefault("planner_api_key", "")
	v.SetDefault("planner_base_url", "https://api.openai.com/v1")
	v.SetDefault("planner_model", "gpt-4o")
	v.SetDefault("planner_timeout", 20*time.Second)

	v.SetDefault("billing_rate_per_hour", 100.0)

	v.SetDefault("digest_schedule", "0 0 18 * * *")
	v.SetDefault("digest_lock_path", "/tmp/timeboss-digest.lock")
	v.SetDefault("digest_status_path", "/tmp/timeboss-digest-status.json")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("cors_origins", []string{"*"})

	// 100 requests per 15 minutes per client IP
	v.SetDefault("rate_limit_requests", 100)
	v.SetDefault("rate_limit_window", 15*time.Minute)

	v.SetDefault("basePath", "/api/v1")
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == defaultJWTSecret && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if !storeDrivers[c.StoreDriver] {
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.StoreDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required for the postgres store")
	}

	if c.StoreDriver == "dynamodb" && c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	if c.BillingRatePerHour <= 0 {
		return fmt.Errorf("billing rate must be positive")
	}

	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}

	if c.NotifyQueueSize <= 0 || c.NotifyWorkers <= 0 {
		return fmt.Errorf("notification queue size and workers must be positive")
	}

	return nil
}

// nestedKeys maps config.json sections to flat keys
var nestedKeys = map[string]string{
	"app.name":                  "app_name",
	"app.version":               "app_version",
	"app.env":                   "app_env",
	"app.host":                  "app_host",
	"app.port":                  "app_port",
	"jwt.secret":                "jwt_secret",
	"jwt.expires_in":            "jwt_expires_in",
	"store.driver":              "store_driver",
	"store.data_dir":            "store_data_dir",
	"aws.region":                "aws_region",
	"aws.access_key_id":         "aws_access_key_id",
	"aws.secret_access_key":     "aws_secret_access_key",
	"aws.dynamodb_endpoint":     "dynamodb_endpoint",
	"aws.dynamodb_table_prefix": "dynamodb_table_prefix",
	"aws.tables":                "tables",
	"postgres.dsn":              "postgres_dsn",
	"redis.url":                 "redis_url",
	"redis.channel":             "redis_channel",
	"notify.queue_size":         "notify_queue_size",
	"notify.workers":            "notify_workers",
	"notify.send_timeout":       "notify_send_timeout",
	"notify.webhook_url":        "notify_webhook_url",
	"notify.webhook_secret":     "notify_webhook_secret",
	"notify.admin_email":        "admin_email",
	"planner.api_key":           "planner_api_key",
	"planner.base_url":          "planner_base_url",
	"planner.model":             "planner_model",
	"planner.timeout":           "planner_timeout",
	"billing.rate_per_hour":     "billing_rate_per_hour",
	"worker.digest_schedule":    "digest_schedule",
	"worker.digest_lock_path":   "digest_lock_path",
	"worker.digest_status_path": "digest_status_path",
	"logging.level":             "log_level",
	"logging.format":            "log_format",
	"cors.origins":              "cors_origins",
	"rate_limit.requests":       "rate_limit_requests",
	"rate_limit.window":         "rate_limit_window",
}

// flattenNestedConfig copies nested config.json values onto the flat keys. A value already
// supplied through the environment is left alone.
func flattenNestedConfig(v *viper.Viper) {
	for nested, flat := range nestedKeys {
		if !v.IsSet(nested) {
			continue
		}
		if _, fromEnv := os.LookupEnv(strings.ToUpper(flat)); fromEnv {
			continue
		}
		v.Set(flat, v.Get(nested))
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// RedactedConfig returns a copy of the config safe to print
func RedactedConfig(c *models.Config) models.Config {
	out := *c
	for _, s := range []*string{&out.JWTSecret, &out.AWSSecretAccessKey, &out.PostgresDSN, &out.RedisURL, &out.NotifyWebhookSecret, &out.PlannerAPIKey} {
		if *s != "" {
			*s = "***"
		}
	}
	return out
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// HashPassword hashes a plain text password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a hashed password with a plain text password.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Today returns the local calendar date in the job date layout
func Today(now time.Time) string {
	return now.Format(models.DateLayout)
}
