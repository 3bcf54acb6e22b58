package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env                 string `mapstructure:"env"`
	Port                int    `mapstructure:"port"`
	MetricsPort         int    `mapstructure:"metrics_port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds"`
}

type JWTCfg struct {
	PrivateKeyPath   string `mapstructure:"private_key_path"`
	PublicKeyPath    string `mapstructure:"public_key_path"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
	CookieName       string `mapstructure:"cookie_name"`
	CookieSecure     bool   `mapstructure:"cookie_secure"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type EmailCfg struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type NotificationCfg struct {
	DedupWindowSeconds int `mapstructure:"dedup_window_seconds"`
}

type CertificateCfg struct {
	Issuer string `mapstructure:"issuer"`
}

type SecurityCfg struct {
	OTPTTLMinutes        int `mapstructure:"otp_ttl_minutes"`
	OTPRequestsPerHour   int `mapstructure:"otp_requests_per_hour"`
	LoginAttemptsPerMin  int `mapstructure:"login_attempts_per_minute"`
	PasswordHashCost     int `mapstructure:"password_hash_cost"`
}

type Config struct {
	App          AppCfg          `mapstructure:"app"`
	JWT          JWTCfg          `mapstructure:"jwt"`
	Mongo        MongoCfg        `mapstructure:"mongo"`
	Redis        RedisCfg        `mapstructure:"redis"`
	Email        EmailCfg        `mapstructure:"email"`
	Notification NotificationCfg `mapstructure:"notification"`
	Certificate  CertificateCfg  `mapstructure:"certificate"`
	Security     SecurityCfg     `mapstructure:"security"`

	// Derived
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	DedupWindow  time.Duration
}

// Load reads the YAML config at path and applies env overrides
// (LEARNHUB_APP_PORT, LEARNHUB_MONGO_URI, ...). A .env file, if present,
// is loaded first so local development needs no exported variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("LEARNHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongo.uri is required")
	}
	if cfg.JWT.PrivateKeyPath == "" || cfg.JWT.PublicKeyPath == "" {
		return nil, errors.New("jwt.private_key_path and jwt.public_key_path are required")
	}

	cfg.ReadTimeout = time.Duration(cfg.App.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.App.WriteTimeoutSeconds) * time.Second
	cfg.IdleTimeout = time.Duration(cfg.App.IdleTimeoutSeconds) * time.Second
	cfg.DedupWindow = time.Duration(cfg.Notification.DedupWindowSeconds) * time.Second
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.MetricsPort == 0 {
		cfg.App.MetricsPort = 9100
	}
	if cfg.App.ReadTimeoutSeconds == 0 {
		cfg.App.ReadTimeoutSeconds = 15
	}
	if cfg.App.WriteTimeoutSeconds == 0 {
		cfg.App.WriteTimeoutSeconds = 15
	}
	if cfg.App.IdleTimeoutSeconds == 0 {
		cfg.App.IdleTimeoutSeconds = 60
	}
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 30
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 7
	}
	if cfg.JWT.CookieName == "" {
		cfg.JWT.CookieName = "access_token"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "learnhub"
	}
	if cfg.Notification.DedupWindowSeconds == 0 {
		cfg.Notification.DedupWindowSeconds = 60
	}
	if cfg.Certificate.Issuer == "" {
		cfg.Certificate.Issuer = "LearnHub"
	}
	if cfg.Security.OTPTTLMinutes == 0 {
		cfg.Security.OTPTTLMinutes = 10
	}
	if cfg.Security.OTPRequestsPerHour == 0 {
		cfg.Security.OTPRequestsPerHour = 5
	}
	if cfg.Security.LoginAttemptsPerMin == 0 {
		cfg.Security.LoginAttemptsPerMin = 10
	}
	if cfg.Security.PasswordHashCost == 0 {
		cfg.Security.PasswordHashCost = 10
	}
}
