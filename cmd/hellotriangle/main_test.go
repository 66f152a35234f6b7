package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("width: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	looseConfig := filepath.Join(dir, "loose.yaml")
	if err := os.WriteFile(looseConfig, []byte("log_level: verbose\nwidth: -1\nheight: 24\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"unknown flag", []string{"-nope"}, 2},
		{"invalid size", []string{"-headless", "-width", "0"}, 2},
		{"invalid config file", []string{"-config", badConfig}, 2},
		{"flags repair config file", []string{"-config", looseConfig, "-headless", "-width", "32", "-log-level", "error"}, 0},
		{"missing config file", []string{"-config", filepath.Join(dir, "missing.yaml")}, 2},
		{"bad log level", []string{"-headless", "-log-level", "loud"}, 2},
		{"headless", []string{"-headless", "-width", "32", "-height", "24", "-frames", "2", "-log-level", "error"}, 0},
		{"headless png", []string{"-headless", "-width", "32", "-height", "24", "-log-level", "error", "-output", filepath.Join(dir, "out.png")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "out.png")); err != nil {
		t.Errorf("headless png not written: %v", err)
	}
}
