package message

import (
	"strings"
	"testing"
	"time"
)

func TestEditable(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"immediately", 0, true},
		{"inside window", time.Minute, true},
		{"at the boundary", EditWindow, true},
		{"just past", EditWindow + time.Second, false},
		{"much later", time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Editable(base, base.Add(tt.elapsed)); got != tt.want {
				t.Errorf("Editable after %v = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty", "", false},
		{"one char", "x", true},
		{"limit", strings.Repeat("a", ContentMaxLength), true},
		{"over limit", strings.Repeat("a", ContentMaxLength+1), false},
		{"multibyte at limit", strings.Repeat("é", ContentMaxLength), true},
		{"multibyte over limit", strings.Repeat("é", ContentMaxLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateContent(tt.value); got != tt.want {
				t.Errorf("ValidateContent(len %d) = %v, want %v", len(tt.value), got, tt.want)
			}
		})
	}
}
