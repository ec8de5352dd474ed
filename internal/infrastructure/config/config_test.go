package config

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadFrom(context.Background(), envconfig.MapLookuper(env))
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Config{
		Port:     "8080",
		Env:      "development",
		LogLevel: "info",
		Session: SessionConfig{
			Key:           "quantiva_user",
			SignInLatency: time.Second,
			RecordFormat:  RecordFormatPlain,
			RecordTTL:     720 * time.Hour,
		},
		Chat:    ChatConfig{ReplyDelay: time.Second, Workers: 4},
		Storage: StorageConfig{Backend: BackendSQLite, SQLitePath: "data/quantiva.db"},
		Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "quantiva"},
		Redis:   RedisConfig{Addr: "localhost:6379"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"ENV":             "production",
		"STORAGE_BACKEND": "redis",
		"REDIS_DB":        "3",
		"DENY_EMAILS":     "a@x.com,b@x.com",
		"RECORD_FORMAT":   "signed",
		"RECORD_SECRET":   "k",
		"SIGNIN_LATENCY":  "250ms",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsDevelopment() || cfg.Storage.Backend != BackendRedis || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"a@x.com", "b@x.com"}, cfg.Session.DenyEmails); diff != "" {
		t.Fatalf("deny list mismatch (-want +got):\n%s", diff)
	}
	if cfg.Session.SignInLatency != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.Session.SignInLatency)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":       {"STORAGE_BACKEND": "postgres"},
		"unknown format":        {"RECORD_FORMAT": "xml"},
		"signed without secret": {"RECORD_FORMAT": "signed"},
		"negative latency":      {"SIGNIN_LATENCY": "-1s"},
		"bad duration":          {"CHAT_REPLY_DELAY": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(t, env); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
