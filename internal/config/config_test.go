package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	want := Config{
		Log:    LogConfig{Level: "info", Format: "json"},
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Sheet:  SheetConfig{Kind: "render"},
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "propertysheet.yaml")
	body := "log:\n  level: debug\nserver:\n  addr: \":9000\"\n  shutdown_timeout: 3s\nsheet:\n  kind: environment\n  label: Scene\n"
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PROPERTYSHEET_SERVER_ADDR", ":9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-format", "json", "")
	flags.String("sheet-label", "", "")
	if err := flags.Parse([]string{"--log-format=console"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(file, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Log:    LogConfig{Level: "debug", Format: "console"},
		Server: ServerConfig{Addr: ":9100", ShutdownTimeout: 3 * time.Second},
		Sheet:  SheetConfig{Kind: "environment", Label: "Scene"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected missing file error")
	}

	t.Setenv("PROPERTYSHEET_LOG_FORMAT", "xml")
	if _, err := Load("", nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
