package config

import "testing"

func TestFeatureFlagsAndThresholds(t *testing.T) {
	SetCurrent(&Config{})
	if GetFeatureFlag("disable_manual_void") {
		t.Fatalf("flag true on empty config")
	}
	if got := GetThreshold("max_bet_amount", 7); got != 7 {
		t.Fatalf("threshold on empty config = %d, want default 7", got)
	}

	SetCurrent(&Config{
		FeatureFlags: map[string]bool{"disable_manual_void": true},
		Thresholds:   map[string]int64{"max_bet_amount": 500},
	})
	if !GetFeatureFlag("disable_manual_void") {
		t.Fatalf("configured flag not read")
	}
	if GetFeatureFlag("other_flag") {
		t.Fatalf("unset flag should default false")
	}
	if got := GetThreshold("max_bet_amount", 7); got != 500 {
		t.Fatalf("configured threshold = %d, want 500", got)
	}
	if got := GetThreshold("missing", 7); got != 7 {
		t.Fatalf("missing threshold = %d, want default 7", got)
	}

	SetCurrent(&Config{})
}
