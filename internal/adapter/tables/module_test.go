package tables

import (
	"io"
	"log/slog"
	"testing"

	"github.com/polkiloo/tableside/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{TableServiceAddress: "http://example.com"}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected client instance")
	}
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: &config.Config{}, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Fatalf("expected no client, got %v", client)
	}
}
