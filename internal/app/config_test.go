package app

import (
	"testing"

	"github.com/adeptlearn/tutor-backend/internal/adaptive"
)

func TestLoadConfigAdaptiveDefaults(t *testing.T) {
	cfg := LoadConfig(nil)
	if cfg.Adaptive != adaptive.DefaultConfig() {
		t.Fatalf("adaptive config = %+v, want defaults", cfg.Adaptive)
	}
}

func TestLoadConfigAdaptiveOverrides(t *testing.T) {
	t.Setenv("ADAPTIVE_WINDOW", "20")
	t.Setenv("ADAPTIVE_UP_THRESHOLD", "0.9")
	t.Setenv("ADAPTIVE_DOWN_THRESHOLD", "0.3")
	t.Setenv("ADAPTIVE_COOLDOWN", "5")

	cfg := LoadConfig(nil)
	if cfg.Adaptive.Window != 20 {
		t.Fatalf("window = %d, want 20", cfg.Adaptive.Window)
	}
	if cfg.Adaptive.UpThreshold != 0.9 || cfg.Adaptive.DownThreshold != 0.3 {
		t.Fatalf("thresholds = %v/%v, want 0.9/0.3", cfg.Adaptive.UpThreshold, cfg.Adaptive.DownThreshold)
	}
	if cfg.Adaptive.Cooldown != 5 {
		t.Fatalf("cooldown = %d, want 5", cfg.Adaptive.Cooldown)
	}
	// Streaks stay at their defaults when not overridden.
	if cfg.Adaptive.UpStreak != 3 || cfg.Adaptive.DownStreak != 2 {
		t.Fatalf("streaks = %d/%d, want 3/2", cfg.Adaptive.UpStreak, cfg.Adaptive.DownStreak)
	}
}

func TestLoadConfigAdaptiveIgnoresMalformedFloat(t *testing.T) {
	t.Setenv("ADAPTIVE_UP_THRESHOLD", "almost-always")

	cfg := LoadConfig(nil)
	if cfg.Adaptive.UpThreshold != adaptive.DefaultConfig().UpThreshold {
		t.Fatalf("threshold = %v, want default", cfg.Adaptive.UpThreshold)
	}
}
