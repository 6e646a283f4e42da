package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"gte=0"`
	BcryptCost         int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// LLMConfig contains all generation-endpoint related settings.
type LLMConfig struct {
	APIKey string `mapstructure:"api_key" validate:"required"`

	// TextModel handles script, deck, and metadata generation; SpeechModel
	// handles speech synthesis.
	TextModel   string `mapstructure:"text_model"`
	SpeechModel string `mapstructure:"speech_model"`

	// BaseURL overrides the generation endpoint, mainly for tests.
	BaseURL string `mapstructure:"base_url"`

	// MaxAttempts and RetryBaseDelaySeconds tune the backoff client.
	MaxAttempts           int `mapstructure:"max_attempts" validate:"gte=0"`
	RetryBaseDelaySeconds int `mapstructure:"retry_base_delay_seconds" validate:"gte=0"`
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"gte=0"`
}
