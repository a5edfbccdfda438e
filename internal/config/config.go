package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	CORS     CORSConfig     `yaml:"cors"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	UseTLS   bool   `yaml:"use_tls"`
}

type CORSConfig struct {
	AllowedOrigin string `yaml:"allowed_origin"`
}

// RedisConfig enables the optional async notification dispatch queue.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LogConfig struct {
	Level         string `yaml:"level"`
	RetentionDays int    `yaml:"retention_days"`
}

// InsecureDefaultSecret is the development-only JWT fallback. Startup
// warns when it is still in effect outside debug mode.
const InsecureDefaultSecret = "taskhub-dev-secret-change-in-production"

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "taskhub.db",
		},
		JWT: JWTConfig{
			Secret:     InsecureDefaultSecret,
			ExpireHour: 1,
		},
		SMTP: SMTPConfig{
			Enabled: false,
			Port:    587,
		},
		CORS: CORSConfig{
			AllowedOrigin: "*",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Log: LogConfig{
			Level:         "info",
			RetentionDays: 30,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if hours := os.Getenv("JWT_EXPIRE_HOUR"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			c.JWT.ExpireHour = h
		}
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		c.SMTP.Enabled = true
		c.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.SMTP.Port = p
		}
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		c.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		c.SMTP.Password = pass
	}
	if from := os.Getenv("SMTP_FROM"); from != "" {
		c.SMTP.From = from
	}
	if origin := os.Getenv("CORS_ALLOWED_ORIGIN"); origin != "" {
		c.CORS.AllowedOrigin = origin
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		c.Redis.Password = pass
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			c.Redis.DB = n
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if days := os.Getenv("LOG_RETENTION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			c.Log.RetentionDays = d
		}
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "taskhub.db"
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = InsecureDefaultSecret
	}
	if c.JWT.ExpireHour <= 0 {
		c.JWT.ExpireHour = 1
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.CORS.AllowedOrigin == "" {
		c.CORS.AllowedOrigin = "*"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.RetentionDays <= 0 {
		c.Log.RetentionDays = 30
	}
}

// UsingInsecureSecret reports whether the hardcoded development secret is
// still in effect.
func (c *Config) UsingInsecureSecret() bool {
	return c.JWT.Secret == InsecureDefaultSecret
}
