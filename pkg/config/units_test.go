package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1m", 1 * time.Minute, false},
		{"1.5h", 90 * time.Minute, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 168 * time.Hour, false},
		{"2d2h", 50 * time.Hour, false},
		{"100ms", 100 * time.Millisecond, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestDurationYAMLRoundTrip(t *testing.T) {
	type doc struct {
		TTL Duration `yaml:"ttl"`
	}

	var d doc
	if err := yaml.Unmarshal([]byte("ttl: 2h"), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if time.Duration(d.TTL) != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", time.Duration(d.TTL))
	}

	out, err := yaml.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back doc
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if back.TTL != d.TTL {
		t.Errorf("round trip mismatch: %v != %v", back.TTL, d.TTL)
	}
}

func TestDurationYAMLExtendedUnits(t *testing.T) {
	type doc struct {
		TTL Duration `yaml:"ttl"`
	}
	var d doc
	if err := yaml.Unmarshal([]byte("ttl: 1d"), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if time.Duration(d.TTL) != Day {
		t.Errorf("ttl = %v, want 24h", time.Duration(d.TTL))
	}
}
