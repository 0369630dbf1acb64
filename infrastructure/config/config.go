package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	EventBusName  string

	// Remote data backend (search/AI and records service)
	RemoteBaseURL      string
	RemoteAPIKey       string
	RemoteTimeout      time.Duration
	RemoteMaxRetries   int
	RemoteRetryBackoff time.Duration

	// IsLambda reports whether the process runs behind the API Gateway
	// Lambda adapter. Only that deployment may trust gateway-injected
	// identity headers; the plain HTTP entrypoint must ignore them.
	IsLambda bool

	// Logging
	LogLevel string

	// Authentication
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Feature flags
	EnableMetrics    bool
	EnableTracing    bool
	EnableCORS       bool
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "vitae")),
		EventBusName:  getEnv("EVENT_BUS_NAME", "vitae-events"),

		// Remote backend configuration
		RemoteBaseURL:      getEnv("REMOTE_BASE_URL", "http://localhost:9000"),
		RemoteAPIKey:       getEnv("REMOTE_API_KEY", ""),
		RemoteTimeout:      getEnvDuration("REMOTE_TIMEOUT", 30*time.Second),
		RemoteMaxRetries:   getEnvInt("REMOTE_MAX_RETRIES", 3),
		RemoteRetryBackoff: getEnvDuration("REMOTE_RETRY_BACKOFF", 500*time.Millisecond),

		// The Lambda runtime always sets AWS_LAMBDA_FUNCTION_NAME.
		IsLambda: getEnvBool("IS_LAMBDA", getEnv("AWS_LAMBDA_FUNCTION_NAME", "") != ""),

		// Authentication
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "vitae-backend"),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),

		// Logging and features
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", false),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Vitae"),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
		if c.RemoteBaseURL == "" {
			return fmt.Errorf("REMOTE_BASE_URL is required")
		}
	}
	if c.RemoteMaxRetries < 0 {
		return fmt.Errorf("REMOTE_MAX_RETRIES must not be negative")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
