package main

import (
	"os"
	"testing"
)

func TestServeFlagsBeatEnvironment(t *testing.T) {
	t.Setenv("SNACKTAP_HOST", "0.0.0.0")
	t.Setenv("SNACKTAP_PORT", "4000")
	t.Setenv("SNACKTAP_HOST_KEY", "")
	if err := os.Unsetenv("SNACKTAP_HOST_KEY"); err != nil {
		t.Fatalf("unset host key env: %v", err)
	}
	cmd := newServeCmd()
	if err := cmd.Flags().Set("host", "127.0.0.1"); err != nil {
		t.Fatalf("set host flag: %v", err)
	}

	if got := envOverride(cmd, "host", "SNACKTAP_HOST", serveHost); got != "127.0.0.1" {
		t.Fatalf("expected explicit --host to win, got %q", got)
	}
	if got := envOverride(cmd, "port", "SNACKTAP_PORT", servePort); got != "4000" {
		t.Fatalf("expected env port, got %q", got)
	}
	if got := envOverride(cmd, "host-key", "SNACKTAP_HOST_KEY", "/tmp/key"); got != "/tmp/key" {
		t.Fatalf("expected fallback host key, got %q", got)
	}
}
