package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "app", Name: "callintake"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret"},
		Groq:  GroqConfig{APIKey: "gsk_test"},
		Media: MediaConfig{Dir: "/tmp/media"},
	}
}

func TestValidate_AppliesDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode default disable, got %q", c.DB.SSLMode)
	}
	if c.Groq.BaseURL != defaultGroqBaseURL || c.Groq.STTModel != defaultSTTModel || c.Groq.LLMModel != defaultLLMModel {
		t.Fatalf("expected groq defaults, got %+v", c.Groq)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected access ttl default, got %v", c.Auth.AccessTokenTTL)
	}
}

func TestValidate_ProductionRequiresExplicitSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "callintake"
	c.Auth.JWTAudience = "callintake-api"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_SSLMODE") {
		t.Fatalf("expected sslmode error, got %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := Config{}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"APP_ENV", "DB_HOST", "REDIS_HOST", "JWT_SECRET", "GROQ_API_KEY", "MEDIA_DIR"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestValidate_RefreshTTLMustExceedAccessTTL(t *testing.T) {
	c := validConfig()
	c.Auth.AccessTokenTTL = time.Hour
	c.Auth.RefreshTokenTTL = time.Minute
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error")
	}
}
