package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Media    MediaConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	// AllowOrigins lists CORS origins of the web frontend.
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds unified Redis connection settings.
// Supported modes: single, sentinel, cluster.
type RedisConfig struct {
	// Mode selects the Redis topology. Defaults to "single".
	Mode string `mapstructure:"mode"`

	// Addrs lists host:port addresses, used by all modes. For "single" the
	// first address wins when non-empty.
	Addrs []string `mapstructure:"addrs"`

	// Addr is the single-mode fallback address, kept for compatibility.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName names the master for "sentinel" mode.
	MasterName string `mapstructure:"master_name"`

	// MaxRetries caps reconnect attempts (-1 = unlimited, 0 = none).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff / MaxRetryBackoff bound retry intervals, milliseconds.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// IdentityConfig holds identity provider settings.
type IdentityConfig struct {
	SecretKey         string   `mapstructure:"secret_key"`
	APIURL            string   `mapstructure:"api_url"`
	JWKSURL           string   `mapstructure:"jwks_url"`
	AuthorizedParties []string `mapstructure:"authorized_parties"`
	WebhookSecret     string   `mapstructure:"webhook_secret"`
}

// MediaConfig holds media host (signed upload) settings.
type MediaConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
}

// EmailConfig holds transactional email settings.
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// PostgresConnectionString builds the PostgreSQL DSN.
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from a file merged with environment variables.
func Load(configPath string) (*Config, error) {
	vip := viper.New() // fresh instance, no package-global state

	// Explicit env bindings so each setting can be overridden in deployment.
	vip.BindEnv("server.port", "SERVER_PORT")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("identity.secret_key", "IDENTITY_SECRET_KEY")
	vip.BindEnv("identity.api_url", "IDENTITY_API_URL")
	vip.BindEnv("identity.jwks_url", "IDENTITY_JWKS_URL")
	vip.BindEnv("identity.webhook_secret", "IDENTITY_WEBHOOK_SECRET")

	vip.BindEnv("media.cloud_name", "MEDIA_CLOUD_NAME")
	vip.BindEnv("media.api_key", "MEDIA_API_KEY")
	vip.BindEnv("media.api_secret", "MEDIA_API_SECRET")
	vip.BindEnv("media.folder", "MEDIA_FOLDER")

	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, using environment variables and defaults.", configPath)
			} else {
				log.Printf("Warning: failed to read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Media.Folder == "" {
		cfg.Media.Folder = "platera/recipes"
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Mode: %s Addr: %s", cfg.Redis.Mode, cfg.Redis.Addr)
		log.Printf("Identity JWKS URL set: %t", cfg.Identity.JWKSURL != "")
		log.Printf("Identity Webhook Secret set: %t", cfg.Identity.WebhookSecret != "")
		log.Printf("Media Cloud Name: %s", cfg.Media.CloudName)
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("----------------------------")
	}

	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Identity.JWKSURL == "" {
		return nil, fmt.Errorf("identity JWKS URL is required (check IDENTITY_JWKS_URL env var)")
	}
	if cfg.Media.CloudName == "" || cfg.Media.APIKey == "" || cfg.Media.APISecret == "" {
		return nil, fmt.Errorf("media configuration (cloud_name, api_key, api_secret) is incomplete (check MEDIA_* env vars)")
	}
	if os.Getenv("GIN_MODE") == "release" && cfg.Database.Password == "" {
		return nil, fmt.Errorf("database password is required in release mode (check DATABASE_PASSWORD env var)")
	}
	if cfg.Email.Enabled && (cfg.Email.ResendAPIKey == "" || cfg.Email.From == "") {
		return nil, fmt.Errorf("email is enabled but resend_api_key or from is missing (check RESEND_API_KEY, EMAIL_FROM env vars)")
	}

	return &cfg, nil
}
