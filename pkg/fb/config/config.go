package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env         string            `yaml:"env"` // "dev" or "prod"
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Auth        AuthConfig        `yaml:"auth"`
	Submissions SubmissionsConfig `yaml:"submissions"`
	CORS        CORSConfig        `yaml:"cors"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTL  string `yaml:"token_ttl"`
}

// SubmissionsConfig tunes the public submit endpoint.
// The enforce and reject switches add checks on top of isActive and isPublic;
// all are off by default.
type SubmissionsConfig struct {
	RateLimit           float64 `yaml:"rate_limit"` // submissions per minute per IP, 0 disables
	RateBurst           int     `yaml:"rate_burst"`
	EnforceRequired     bool    `yaml:"enforce_required"`
	EnforceRequireLogin bool    `yaml:"enforce_require_login"`
	RejectExpired       bool    `yaml:"reject_expired"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// CredentialsConfig drives the initial admin seeding.
type CredentialsConfig struct {
	Path          string `yaml:"path"`
	AdminUsername string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
}

// Load builds the configuration from defaults, an optional .env file,
// config.yaml (or the file named by FORMBASE_CONFIG) and FORMBASE_* variables,
// in increasing order of priority.
func Load() *Config {
	_ = godotenv.Load()

	env := os.Getenv("FORMBASE_ENV")
	if env == "" {
		env = "dev"
	}

	cfg := Default(env)

	path := os.Getenv("FORMBASE_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		yaml.Unmarshal(data, cfg)
	}

	applyEnv(cfg)
	return cfg
}

// Default returns the built-in configuration for env.
func Default(env string) *Config {
	dbPath := "_workspace/db/formbase.db"
	if env != "dev" {
		dbPath = "/var/lib/formbase/formbase.db"
	}

	return &Config{
		Env: env,
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "10s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "5s",
		},
		Database:    DatabaseConfig{Path: dbPath},
		Log:         LogConfig{Level: "info"},
		Auth:        AuthConfig{TokenTTL: "24h"},
		Submissions: SubmissionsConfig{RateLimit: 30, RateBurst: 10},
		CORS:        CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FORMBASE_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FORMBASE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FORMBASE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FORMBASE_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("FORMBASE_TOKEN_TTL"); v != "" {
		cfg.Auth.TokenTTL = v
	}
	if v := os.Getenv("FORMBASE_SUBMIT_RATE_LIMIT"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Submissions.RateLimit = n
		}
	}
	if v := os.Getenv("FORMBASE_SUBMIT_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Submissions.RateBurst = n
		}
	}
	if v := os.Getenv("FORMBASE_ENFORCE_REQUIRED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Submissions.EnforceRequired = b
		}
	}
	if v := os.Getenv("FORMBASE_ENFORCE_REQUIRE_LOGIN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Submissions.EnforceRequireLogin = b
		}
	}
	if v := os.Getenv("FORMBASE_REJECT_EXPIRED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Submissions.RejectExpired = b
		}
	}
	if v := os.Getenv("FORMBASE_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}
	if v := os.Getenv("FORMBASE_CREDENTIALS_PATH"); v != "" {
		cfg.Credentials.Path = v
	}
	if v := os.Getenv("FORMBASE_ADMIN_USERNAME"); v != "" {
		cfg.Credentials.AdminUsername = v
	}
	if v := os.Getenv("FORMBASE_ADMIN_EMAIL"); v != "" {
		cfg.Credentials.AdminEmail = v
	}
}

// Duration parses value, returning fallback when it is empty or malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
