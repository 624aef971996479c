package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitConfiguresGlobalLogger(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	if err := Init("debug"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if !Logger().Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected logger to enable debug level")
	}

	if err := InitWithEncoding("not-a-level", "console"); err != nil {
		t.Fatalf("InitWithEncoding returned error: %v", err)
	}
	if Logger().Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected unknown level to fall back to info")
	}
}

func TestWithModuleAnnotatesEntries(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	Replace(zap.New(core))
	t.Cleanup(func() { Replace(nil) })

	WithModule("signup").Info("account created", zap.String("email", "test@test.com"))
	Warn("warned")

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["module"] != "signup" {
		t.Fatalf("expected module field, got %v", fields)
	}
	if fields["email"] != "test@test.com" {
		t.Fatalf("expected email field, got %v", fields)
	}
}
