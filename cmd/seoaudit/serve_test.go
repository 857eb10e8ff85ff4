package main

import (
	"testing"

	"github.com/Baillie11/seo/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has addr flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("addr")
		if flag == nil {
			t.Fatal("expected addr flag")
		}
		if flag.DefValue != "" {
			t.Errorf("expected empty default, got %q", flag.DefValue)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has reports-dir flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("reports-dir")
		if flag == nil {
			t.Fatal("expected reports-dir flag")
		}
		if flag.DefValue != config.DefaultReportsDir {
			t.Errorf("expected default %q, got %q", config.DefaultReportsDir, flag.DefValue)
		}
	})

	t.Run("has no-history flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-history") == nil {
			t.Error("expected no-history flag")
		}
	})
}

// TestListenAddr tests address resolution from the environment.
func TestListenAddr(t *testing.T) {
	t.Run("defaults without PORT", func(t *testing.T) {
		t.Setenv("PORT", "")
		if addr := listenAddr(); addr != config.DefaultServerAddr {
			t.Errorf("expected %q, got %q", config.DefaultServerAddr, addr)
		}
	})

	t.Run("uses PORT when set", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		if addr := listenAddr(); addr != ":8080" {
			t.Errorf("expected ':8080', got %q", addr)
		}
	})
}
