package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, expected 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, expected sqlite", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireHour != 1 {
		t.Errorf("expire hour = %d, expected 1", cfg.JWT.ExpireHour)
	}
	if !cfg.UsingInsecureSecret() {
		t.Error("default config should report the insecure secret")
	}
	if cfg.Log.RetentionDays != 30 {
		t.Errorf("retention days = %d, expected 30", cfg.Log.RetentionDays)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
  mode: release
database:
  driver: postgres
  dsn: "host=db user=app dbname=taskhub"
jwt:
  secret: file-secret
  expire_hour: 12
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, expected 9090", cfg.Server.Port)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("mode = %q, expected release", cfg.Server.Mode)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, expected postgres", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireHour != 12 {
		t.Errorf("expire hour = %d, expected 12", cfg.JWT.ExpireHour)
	}
	if cfg.UsingInsecureSecret() {
		t.Error("file secret should not be the insecure default")
	}

	// Unset fields still get defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, expected default", cfg.Server.Host)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, expected default info", cfg.Log.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_EXPIRE_HOUR", "6")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_DSN", "app:app@tcp(db:3306)/taskhub")
	t.Setenv("LOG_RETENTION_DAYS", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("port = %q, expected 3000", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("secret = %q, expected env-secret", cfg.JWT.Secret)
	}
	if cfg.JWT.ExpireHour != 6 {
		t.Errorf("expire hour = %d, expected 6", cfg.JWT.ExpireHour)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("driver = %q, expected mysql", cfg.Database.Driver)
	}
	if cfg.Log.RetentionDays != 7 {
		t.Errorf("retention days = %d, expected 7", cfg.Log.RetentionDays)
	}
}

func TestLoad_SMTPEnabledByEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.SMTP.Enabled {
		t.Error("setting SMTP_HOST should enable SMTP")
	}
	if cfg.SMTP.Host != "mail.example.com" {
		t.Errorf("host = %q", cfg.SMTP.Host)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("port = %d, expected default 587", cfg.SMTP.Port)
	}
}

func TestLoad_RedisEnabledByEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Redis.Enabled {
		t.Error("setting REDIS_ADDR should enable the async queue")
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("addr = %q", cfg.Redis.Addr)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not: valid"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}
