package main

import (
	"testing"
	"time"

	"regionview/internal/config"
)

func TestFPSLimiterPacesFrames(t *testing.T) {
	defer config.SetFPSLimit(config.GetFPSLimit())
	config.SetFPSLimit(100)

	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 5; i++ {
		f.Wait()
	}
	if elapsed := time.Since(start); elapsed < 45*time.Millisecond {
		t.Fatalf("5 frames at 100 fps took %v, want at least 45ms", elapsed)
	}
}

func TestFPSLimiterUnlimited(t *testing.T) {
	defer config.SetFPSLimit(config.GetFPSLimit())
	config.SetFPSLimit(0)

	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait()
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("unlimited frames took %v", elapsed)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{"debug": "DEBUG", "WARN": "WARN", "bogus": "INFO", "": "INFO"}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
