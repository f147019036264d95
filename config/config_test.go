package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Virv12/mpris-over-http/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logger.Level
	}{
		{"debug", logger.DEBUG},
		{"DEBUG", logger.DEBUG},
		{"Debug", logger.DEBUG},
		{"info", logger.INFO},
		{"INFO", logger.INFO},
		{"warn", logger.WARN},
		{"WARN", logger.WARN},
		{"error", logger.ERROR},
		{"ERROR", logger.ERROR},
		{"fatal", logger.FATAL},
		{"FATAL", logger.FATAL},
		{"unknown", logger.INFO}, // default
		{"", logger.INFO},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	setDefaults()

	if !viper.GetBool("api.enabled") {
		t.Error("api.enabled should default to true")
	}
	if got := viper.GetInt("api.port"); got != 3000 {
		t.Errorf("api.port = %d, want 3000", got)
	}
	if got := viper.GetString("bind"); got != "127.0.0.1" {
		t.Errorf("bind = %q, want 127.0.0.1", got)
	}
	if got := viper.GetDuration("sse.keepalive"); got != 30*time.Second {
		t.Errorf("sse.keepalive = %s, want 30s", got)
	}
	if got := viper.GetDuration("sse.position_refresh"); got != 2*time.Second {
		t.Errorf("sse.position_refresh = %s, want 2s", got)
	}
	if got := viper.GetDuration("mpris.timeout"); got != 5*time.Second {
		t.Errorf("mpris.timeout = %s, want 5s", got)
	}
}

func TestApiConfigAddr(t *testing.T) {
	cfg := &ApiConfig{Bind: "0.0.0.0", Port: 3000}
	if got := cfg.Addr(); got != "0.0.0.0:3000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:3000", got)
	}
}
