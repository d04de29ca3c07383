package main

import (
	"testing"

	"github.com/adviceboard/adviceboard/internal/config"
)

func TestConfirmEnabled(t *testing.T) {
	tests := []struct {
		name        string
		interactive bool
		yes         bool
		settings    *config.Settings
		want        bool
	}{
		{"interactive default", true, false, &config.Settings{}, true},
		{"non-interactive commands never prompt", false, false, &config.Settings{}, false},
		{"--yes skips the prompt", true, true, &config.Settings{}, false},
		{"preference turns the prompt off", true, false,
			&config.Settings{Preferences: &config.Preferences{ConfirmDeletes: false}}, false},
		{"preference keeps the prompt on", true, false,
			&config.Settings{Preferences: &config.Preferences{ConfirmDeletes: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := assumeYes
			assumeYes = tt.yes
			defer func() { assumeYes = prev }()

			if got := confirmEnabled(tt.interactive, tt.settings); got != tt.want {
				t.Errorf("confirmEnabled(%v) = %v, want %v", tt.interactive, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Errorf("truncate left a short string as %q", got)
	}
	if got := truncate("abcdefgh", 5); got != "abcd…" {
		t.Errorf("truncate = %q", got)
	}
}
