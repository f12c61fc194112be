package token

import (
	"testing"
	"time"
)

func TestExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		expireAt time.Time
		want     bool
	}{
		{"future", now.Add(time.Hour), false},
		{"exactly now", now, false},
		{"past", now.Add(-time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := Token{ExpireAt: tt.expireAt}
			if got := tok.Expired(now); got != tt.want {
				t.Errorf("Expired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtendable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		remaining time.Duration
		want      bool
	}{
		{"full life left", Life, false},
		{"just above threshold", ExtendMinimumLife, false},
		{"just below threshold", ExtendMinimumLife - time.Second, true},
		{"almost gone", time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := Token{ExpireAt: now.Add(tt.remaining)}
			if got := tok.Extendable(now); got != tt.want {
				t.Errorf("Extendable with %v left = %v, want %v", tt.remaining, got, tt.want)
			}
		})
	}
}

func TestValidateSecret(t *testing.T) {
	if ValidateSecret("abc") {
		t.Error("short secret should be rejected")
	}
	if !ValidateSecret("0123456789abcdef") {
		t.Error("16-character secret should be accepted")
	}
}
