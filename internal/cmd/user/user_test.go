package user

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8092 {
		t.Fatalf("port = %d, want 8092", cfg.Port)
	}
	if cfg.AuthAddr != "auth:8083" {
		t.Fatalf("auth_addr = %q, want %q", cfg.AuthAddr, "auth:8083")
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("session_ttl = %s, want 1h", cfg.SessionTTL)
	}
	if cfg.SyncTimeout != 2*time.Second {
		t.Fatalf("sync_timeout = %s, want 2s", cfg.SyncTimeout)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("BOOKSHELF_USER_PORT", "9000")
	t.Setenv("BOOKSHELF_USER_AUTH_ADDR", "custom-auth:19000")

	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-sync-timeout", "500ms"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("port = %d, want 9001", cfg.Port)
	}
	if cfg.AuthAddr != "custom-auth:19000" {
		t.Fatalf("auth_addr = %q, want %q", cfg.AuthAddr, "custom-auth:19000")
	}
	if cfg.SyncTimeout != 500*time.Millisecond {
		t.Fatalf("sync_timeout = %s, want 500ms", cfg.SyncTimeout)
	}
	if srv := serverConfig(cfg); srv.Addr != ":9001" || srv.AuthAddr != "custom-auth:19000" {
		t.Fatalf("server config = %+v", srv)
	}
}
