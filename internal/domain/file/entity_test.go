package file

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     FileType
		ok       bool
	}{
		{"jpeg", "image/jpeg", TypeImage, true},
		{"png", "image/png", TypeImage, true},
		{"pdf", "application/pdf", TypeDocument, true},
		{"plain text", "text/plain", TypeDocument, true},
		{"octet stream", "application/octet-stream", TypeDocument, true},
		{"gif rejected", "image/gif", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.mimeType)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.mimeType, got, ok, tt.want, tt.ok)
			}
		})
	}
}
