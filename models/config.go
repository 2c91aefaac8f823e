package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// Store: memory, file, dynamodb or postgres
	StoreDriver  string `mapstructure:"store_driver"`
	StoreDataDir string `mapstructure:"store_data_dir"`

	// AWS
	AWSRegion           string   `mapstructure:"aws_region"`
	AWSAccessKeyID      string   `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string   `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string   `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string   `mapstructure:"dynamodb_table_prefix"`
	Tables              []string `mapstructure:"tables"`

	// Postgres
	PostgresDSN string `mapstructure:"postgres_dsn"`

	// Redis
	RedisURL     string `mapstructure:"redis_url"`
	RedisChannel string `mapstructure:"redis_channel"`

	// Notifications
	NotifyQueueSize     int           `mapstructure:"notify_queue_size"`
	NotifyWorkers       int           `mapstructure:"notify_workers"`
	NotifySendTimeout   time.Duration `mapstructure:"notify_send_timeout"`
	NotifyWebhookURL    string        `mapstructure:"notify_webhook_url"`
	NotifyWebhookSecret string        `mapstructure:"notify_webhook_secret"`
	AdminEmail          string        `mapstructure:"admin_email"`

	// External planner
	PlannerAPIKey  string        `mapstructure:"planner_api_key"`
	PlannerBaseURL string        `mapstructure:"planner_base_url"`
	PlannerModel   string        `mapstructure:"planner_model"`
	PlannerTimeout time.Duration `mapstructure:"planner_timeout"`

	// Billing
	BillingRatePerHour float64 `mapstructure:"billing_rate_per_hour"`

	// Worker
	DigestSchedule   string `mapstructure:"digest_schedule"`
	DigestLockPath   string `mapstructure:"digest_lock_path"`
	DigestStatusPath string `mapstructure:"digest_status_path"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Rate Limiting
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`

	// Base Path
	BasePath string `mapstructure:"basePath"`
}
