package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from the environment.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	// Call2FA API access.
	APILogin              string        `mapstructure:"api_login"`
	APIPassword           string        `mapstructure:"api_password"`
	APIBaseURI            string        `mapstructure:"api_base_uri"`
	APIVersion            string        `mapstructure:"api_version"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	// One-shot caller settings.
	PhoneNumber string `mapstructure:"phone_number"`
	CallbackURL string `mapstructure:"callback_url"`

	// Callback listener settings.
	ListenPort          int           `mapstructure:"listen_port"`
	ReadTimeoutSeconds  int64         `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int64         `mapstructure:"write_timeout_seconds"`
	ReadTimeout         time.Duration `mapstructure:"-"`
	WriteTimeout        time.Duration `mapstructure:"-"`
	SinksFile           string        `mapstructure:"sinks_file"`

	// Delivery dedupe store.
	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables, preloading configs/.env
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "call2fa-go")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_login", "")
	v.SetDefault("api_password", "")
	v.SetDefault("api_base_uri", "https://api-call2fa.rikkicom.io")
	v.SetDefault("api_version", "v1")
	v.SetDefault("phone_number", "")
	v.SetDefault("callback_url", "")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("listen_port", 8085)
	v.SetDefault("read_timeout_seconds", 10)
	v.SetDefault("write_timeout_seconds", 10)
	v.SetDefault("sinks_file", "./configs/sinks.yaml")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/deliveries.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.ReadTimeoutSeconds <= 0 || cfg.WriteTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid listener timeouts (must be positive seconds)")
	}
	cfg.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
