package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
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

// CacheConfig contains the cache tier settings. RedisURL selects the
// shared Redis backend when set; the in-process backend is used
// otherwise. TTLs are in seconds.
type CacheConfig struct {
	RedisURL      string `mapstructure:"redis_url" validate:"omitempty,url"`
	FeaturedTTL   int    `mapstructure:"featured_ttl" validate:"required,gt=0"`
	UserStoresTTL int    `mapstructure:"user_stores_ttl" validate:"required,gt=0"`
}
