// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// unsetEnv removes variables for the duration of the test so defaults apply.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestLoadDefaultsWithSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("ENVIRONMENT", "development")
	unsetEnv(t, "STORAGE_DRIVER", "DATA_DIR", "UPLOADS_TIMEOUT", "PORT")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Uploads.Timeout != 30*time.Minute {
		t.Errorf("expected 30m upload timeout, got %v", c.Uploads.Timeout)
	}
	if c.Session.CookieName != "session" {
		t.Errorf("expected cookie name session, got %q", c.Session.CookieName)
	}
	if c.Storage.Driver != StorageDriverFile || c.Storage.DataDir != "data" {
		t.Errorf("unexpected storage config %+v", c.Storage)
	}
	if c.Auth.AdminEmailMarker != "admin" {
		t.Errorf("expected admin marker, got %q", c.Auth.AdminEmailMarker)
	}
	if c.IsProduction() {
		t.Errorf("expected a non-production environment")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("ENVIRONMENT", "development")
	unsetEnv(t, "STORAGE_DRIVER")
	t.Setenv("PORT", "9090")
	t.Setenv("UPLOADS_TIMEOUT", "2h")
	t.Setenv("DATA_DIR", "/tmp/videos")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", c.Server.Port)
	}
	if c.Uploads.Timeout != 2*time.Hour {
		t.Errorf("expected 2h upload timeout, got %v", c.Uploads.Timeout)
	}
	if c.Storage.DataDir != "/tmp/videos" {
		t.Errorf("expected data dir override, got %q", c.Storage.DataDir)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing secret",
			env:     map[string]string{"SESSION_SECRET": ""},
			wantErr: "SESSION_SECRET is required",
		},
		{
			name: "short secret in production",
			env: map[string]string{
				"SESSION_SECRET": "short",
				"ENVIRONMENT":    "production",
			},
			wantErr: "at least 32 bytes",
		},
		{
			name: "postgres without url",
			env: map[string]string{
				"SESSION_SECRET": testSecret,
				"STORAGE_DRIVER": "postgres",
				"DATABASE_URL":   "",
			},
			wantErr: "DATABASE_URL is required",
		},
		{
			name: "unknown upload driver",
			env: map[string]string{
				"SESSION_SECRET": testSecret,
				"UPLOADS_DRIVER": "ftp",
			},
			wantErr: "unknown uploads driver",
		},
		{
			name: "s3 without public base url",
			env: map[string]string{
				"SESSION_SECRET":     testSecret,
				"UPLOADS_DRIVER":     "s3",
				"S3_BUCKET":          "videos",
				"S3_PUBLIC_BASE_URL": "",
			},
			wantErr: "S3_PUBLIC_BASE_URL is required",
		},
		{
			name: "zero upload timeout",
			env: map[string]string{
				"SESSION_SECRET":  testSecret,
				"UPLOADS_TIMEOUT": "0s",
			},
			wantErr: "uploads.timeout must be positive",
		},
		{
			name: "zero rate limit requests",
			env: map[string]string{
				"SESSION_SECRET":      testSecret,
				"RATE_LIMIT_REQUESTS": "0",
			},
			wantErr: "rate_limit.requests must be positive",
		},
		{
			name: "negative rate limit burst",
			env: map[string]string{
				"SESSION_SECRET":   testSecret,
				"RATE_LIMIT_BURST": "-1",
			},
			wantErr: "rate_limit.burst must be positive",
		},
		{
			name: "zero rate limit window",
			env:  map[string]string{"SESSION_SECRET": testSecret},
			yaml: "rate_limit:\n  window: 0s\n",
			wantErr: "rate_limit.window must be positive",
		},
		{
			name: "wildcard origin with credentials",
			env:  map[string]string{"SESSION_SECRET": testSecret},
			yaml: "cors:\n  allowed_origins: [\"*\"]\n  allow_credentials: true\n",
			wantErr: "CORS wildcard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "development")
			unsetEnv(t, "STORAGE_DRIVER", "UPLOADS_DRIVER", "DATA_DIR",
				"UPLOADS_TIMEOUT", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_BURST",
				"RATE_LIMIT_WINDOW")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
					t.Fatalf("write config: %v", err)
				}
			}

			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	unsetEnv(t, "ENVIRONMENT", "STORAGE_DRIVER", "RATE_LIMIT_REQUESTS",
		"RATE_LIMIT_WINDOW", "UPLOADS_MAX_BYTES")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"app:",
		"  environment: staging",
		"rate_limit:",
		"  requests: 10",
		"  window: 30s",
		"uploads:",
		"  max_bytes: 1048576",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.App.Environment != "staging" {
		t.Errorf("expected staging, got %q", c.App.Environment)
	}
	if c.RateLimit.Requests != 10 || c.RateLimit.Window != 30*time.Second {
		t.Errorf("unexpected rate limit %+v", c.RateLimit)
	}
	if c.Uploads.MaxBytes != 1<<20 {
		t.Errorf("expected 1MiB upload cap, got %d", c.Uploads.MaxBytes)
	}
}
