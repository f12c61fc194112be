package user

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"too short", "a", false},
		{"minimum", "ab", true},
		{"maximum", "abcdefghijklmnop", true},
		{"too long", "abcdefghijklmnopq", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUsername(tt.value); got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"too short", "12345", false},
		{"minimum", "123456", true},
		{"maximum", "1234567890123456", true},
		{"too long", "12345678901234567", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePassword(tt.value); got != tt.want {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"plain digits", "0912345678", true},
		{"with plus", "+989123456789", true},
		{"too short", "091234567", false},
		{"too long", "123456789012345", false},
		{"letters", "09123abc78", false},
		{"plus in middle", "0912+345678", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePhone(tt.value); got != tt.want {
				t.Errorf("ValidatePhone(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if ValidateName("a") {
		t.Error("single-character name should be rejected")
	}
	if !ValidateName("ab") {
		t.Error("two-character name should be accepted")
	}
}
