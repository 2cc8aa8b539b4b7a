package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.HTTP.Addr(); got != ":8080" {
		t.Errorf("Addr = %q, want :8080", got)
	}
	if cfg.Store.Driver != DriverMongo {
		t.Errorf("Driver = %q", cfg.Store.Driver)
	}
	if cfg.Store.NotificationStore != DriverMongo {
		t.Errorf("NotificationStore should follow the driver, got %q", cfg.Store.NotificationStore)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.Auth.TokenTTL)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "JWT_SECRET=from-file\nSTORE_DRIVER=memory\nCASS_DB=a, b ,c\nFRONTEND_URL=http://app.local/\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already present, so
	// clear them; t.Setenv restores the originals afterwards.
	for _, key := range []string{"JWT_SECRET", "STORE_DRIVER", "CASS_DB", "FRONTEND_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Driver = %q", cfg.Store.Driver)
	}
	if got := strings.Join(cfg.Store.CassandraHosts, "|"); got != "a|b|c" {
		t.Errorf("CassandraHosts = %q", got)
	}
	if cfg.FrontendURL != "http://app.local" {
		t.Errorf("FrontendURL = %q", cfg.FrontendURL)
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OUTBOX_SIZE", "many")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"OUTBOX_SIZE", "JWT_TTL", "STORE_DRIVER", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestHTTPAddr(t *testing.T) {
	for port, want := range map[string]string{"9000": ":9000", ":9001": ":9001", "": ":8080"} {
		if got := (HTTPConfig{Port: port}).Addr(); got != want {
			t.Errorf("Addr(%q) = %q, want %q", port, got, want)
		}
	}
}
