package main

import (
	"testing"

	"github.com/aguli-tv/aguli-admin/internal/config"
)

func TestApplyOverrides(t *testing.T) {
	base := config.Config{
		Server: config.ServerConfig{Addr: "127.0.0.1", Port: ":8890"},
		API:    config.APIConfig{BaseURL: "https://api.aguli.tv"},
		Logs:   config.LogsConfig{Dir: "data/logs", Level: "info"},
	}
	tests := []struct {
		name       string
		o          overrides
		wantListen string
		wantAPI    string
		wantLevel  string
	}{
		{name: "none", o: overrides{}, wantListen: "127.0.0.1:8890", wantAPI: "https://api.aguli.tv", wantLevel: "info"},
		{name: "listen", o: overrides{listen: "0.0.0.0:9000"}, wantListen: "0.0.0.0:9000", wantAPI: "https://api.aguli.tv", wantLevel: "info"},
		{name: "port only", o: overrides{listen: ":7000"}, wantListen: ":7000", wantAPI: "https://api.aguli.tv", wantLevel: "info"},
		{name: "api and level", o: overrides{apiURL: " http://localhost:5000 ", logLevel: "debug"}, wantListen: "127.0.0.1:8890", wantAPI: "http://localhost:5000", wantLevel: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyOverrides(base, tt.o)
			if got.Server.Listen() != tt.wantListen {
				t.Fatalf("listen = %q, want %q", got.Server.Listen(), tt.wantListen)
			}
			if got.API.BaseURL != tt.wantAPI {
				t.Fatalf("api = %q, want %q", got.API.BaseURL, tt.wantAPI)
			}
			if got.Logs.Level != tt.wantLevel {
				t.Fatalf("level = %q, want %q", got.Logs.Level, tt.wantLevel)
			}
		})
	}
}
