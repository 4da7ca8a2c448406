package initializers

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings. Values are resolved in three layers:
// built-in defaults, then an optional YAML file, then environment variables.
// Environment always wins so container deployments can override everything.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	MaxOpenConns   int
	MaxIdleConns   int
	ConnectRetries int
	ConnectBackoff time.Duration

	TrustedProxies      []string
	SearchCaseSensitive bool
}

// fileConfigYAML defines the optional YAML configuration file. Only settings
// that are safe to commit belong here; secrets stay in the environment.
type fileConfigYAML struct {
	Port                string   `yaml:"port"`
	MaxOpenConns        int      `yaml:"max_open_conns"`
	MaxIdleConns        int      `yaml:"max_idle_conns"`
	TrustedProxies      []string `yaml:"trusted_proxies"`
	SearchCaseSensitive *bool    `yaml:"search_case_sensitive"`
}

// loadFileConfig tries to load YAML config from disk. If not found, returns nil with error.
func loadFileConfig() (*fileConfigYAML, error) {
	path := os.Getenv("CONFIG_FILE")
	if strings.TrimSpace(path) == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfigYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig resolves the full application configuration. It fails when
// required settings (DATABASE_URL, a sufficiently long JWT_SECRET) are absent.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           "8080",
		MaxOpenConns:   10,
		MaxIdleConns:   5,
		ConnectRetries: 10,
		ConnectBackoff: 2 * time.Second,
	}

	if yamlCfg, err := loadFileConfig(); err == nil && yamlCfg != nil {
		if strings.TrimSpace(yamlCfg.Port) != "" {
			cfg.Port = yamlCfg.Port
		}
		if yamlCfg.MaxOpenConns > 0 {
			cfg.MaxOpenConns = yamlCfg.MaxOpenConns
		}
		if yamlCfg.MaxIdleConns > 0 {
			cfg.MaxIdleConns = yamlCfg.MaxIdleConns
		}
		if len(yamlCfg.TrustedProxies) > 0 {
			cfg.TrustedProxies = yamlCfg.TrustedProxies
		}
		if yamlCfg.SearchCaseSensitive != nil {
			cfg.SearchCaseSensitive = *yamlCfg.SearchCaseSensitive
		}
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_MAX_OPEN_CONNS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxOpenConns = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_MAX_IDLE_CONNS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxIdleConns = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TRUSTED_PROXIES")); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.TrustedProxies = parts
	}
	if v := strings.TrimSpace(os.Getenv("SEARCH_CASE_SENSITIVE")); v != "" {
		cfg.SearchCaseSensitive = parseBool(v)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be set and at least 32 characters")
	}

	return cfg, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
