package source

import (
	"testing"

	"github.com/mmcdole/encore/internal/adapter"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *SourceConfig
		wantErr bool
	}{
		{"nil config", nil, true},
		{"missing url", &SourceConfig{Token: "t"}, true},
		{"missing token", &SourceConfig{URL: "http://localhost"}, true},
		{"valid", &SourceConfig{URL: "http://localhost", Token: "t"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := NewClient(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && backend == nil {
				t.Fatal("NewClient() returned nil backend")
			}
		})
	}
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := adapter.DefaultConfig()
	if _, err := NewClientFromConfig(cfg, nil); err == nil {
		t.Fatal("expected error without a token")
	}

	cfg.Server.Token = "token"
	if _, err := NewClientFromConfig(cfg, nil); err != nil {
		t.Fatalf("NewClientFromConfig() error = %v", err)
	}
}
