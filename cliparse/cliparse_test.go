// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// noEnvFile points ParseFlags at a .env path that does not exist so a stray
// file in the package directory cannot leak into the tests.
func noEnvFile(t *testing.T) []string {
	return []string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags(noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "file:bugtracker.db" {
		t.Errorf("unexpected default database URL %q", cfg.DatabaseURL)
	}
	if !cfg.EnforceCSRF {
		t.Error("CSRF enforcement should default to on")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Errorf("expected 720h session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.TrustProxy {
		t.Error("proxy headers should not be trusted by default")
	}
}

func TestParseFlags_TrustProxy(t *testing.T) {
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := ParseFlags(noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.TrustProxy {
		t.Error("expected TRUST_PROXY=true to trust proxy headers")
	}

	cfg, err = ParseFlags(append(noEnvFile(t), "-trust-proxy", "false"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TrustProxy {
		t.Error("CLI should override env")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("ENFORCE_CSRF", "false")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := ParseFlags(noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected env database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.EnforceCSRF {
		t.Error("expected ENFORCE_CSRF=false to disable enforcement")
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h, got %s", cfg.SessionTTL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	args := append(noEnvFile(t), "-p", "8080", "-d", "file:test.db", "-bcrypt-cost", "4")
	cfg, err := ParseFlags(args)
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("expected bcrypt cost 4, got %d", cfg.BcryptCost)
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\nLOGIN_BURST=3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LOGIN_BURST")
	})

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level from .env, got %q", cfg.LogLevel)
	}
	if cfg.LoginBurst != 3 {
		t.Errorf("expected login burst 3, got %d", cfg.LoginBurst)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "postgres without url", env: map[string]string{"DATABASE_TYPE": "postgres"}},
		{name: "unknown database type", args: []string{"-t", "mysql"}},
		{name: "bad port", env: map[string]string{"PORT": "abc"}},
		{name: "bad bool", env: map[string]string{"COOKIE_SECURE": "maybe"}},
		{name: "bad ttl", args: []string{"-session-ttl", "soon"}},
		{name: "cost too low", args: []string{"-bcrypt-cost", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(append(noEnvFile(t), tt.args...)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
