package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"freightdash/internal/model"
)

// DefaultSessionSecret is only meant for local demos; serve warns when it is in use.
const DefaultSessionSecret = "super-secret-session-key"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	RunAddress      string          `mapstructure:"run_address"`
	Source          string          `mapstructure:"source"`
	AWSRegion       string          `mapstructure:"aws_region"`
	DatabaseURI     string          `mapstructure:"database_uri"`
	SessionSecret   string          `mapstructure:"session_secret"`
	SessionTTL      time.Duration   `mapstructure:"session_ttl"`
	RefreshInterval time.Duration   `mapstructure:"refresh_interval"`
	LogLevel        string          `mapstructure:"log_level"`
	Accounts        []model.Account `mapstructure:"accounts"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("run_address", "localhost:8080")
	v.SetDefault("source", "orders.xlsx")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("session_secret", DefaultSessionSecret)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("refresh_interval", 30*time.Second)
	v.SetDefault("log_level", "info")
}

// BindEnv maps the environment overrides onto v's keys.
func BindEnv(v *viper.Viper) {
	_ = v.BindEnv("run_address", "RUN_ADDRESS")
	_ = v.BindEnv("source", "SOURCE_PATH")
	_ = v.BindEnv("aws_region", "AWS_REGION")
	_ = v.BindEnv("database_uri", "DATABASE_URI")
	_ = v.BindEnv("session_secret", "SESSION_SECRET")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
}

// Load reads cfgFile (optional) into v and decodes the result. Flags should be
// bound to v by the caller before Load is called.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	base, err := baseDir(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg.Source = ResolveSource(cfg.Source, base)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("%w: source is empty", ErrInvalidConfig)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("%w: session_secret is empty", ErrInvalidConfig)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.AccountID == "" {
			return fmt.Errorf("%w: accounts[%d] has no account_id", ErrInvalidConfig, i)
		}
		if a.Tenant == "" {
			return fmt.Errorf("%w: account %s has no tenant", ErrInvalidConfig, a.AccountID)
		}
		if _, dup := seen[a.AccountID]; dup {
			return fmt.Errorf("%w: duplicate account %s", ErrInvalidConfig, a.AccountID)
		}
		seen[a.AccountID] = struct{}{}
	}
	return nil
}

// Tenants returns the distinct tenant names in account order.
func (c *Config) Tenants() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, a := range c.Accounts {
		if _, ok := seen[a.Tenant]; ok {
			continue
		}
		seen[a.Tenant] = struct{}{}
		out = append(out, a.Tenant)
	}
	return out
}

// ResolveSource makes a relative filesystem source absolute against base.
// S3 URLs and absolute paths are returned unchanged.
func ResolveSource(src, base string) string {
	if src == "" || strings.HasPrefix(src, "s3://") || filepath.IsAbs(src) || base == "" {
		return src
	}
	return filepath.Join(base, src)
}

func baseDir(cfgFile string) (string, error) {
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return filepath.Dir(abs), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}
