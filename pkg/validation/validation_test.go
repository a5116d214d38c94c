package validation

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "acc-123_abc", false},
		{"uuid style", "5f4dcc3b-5aa7-4651-9b1c-0d5c2f1aa111", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 129), true},
		{"invalid chars", "acc/123", true},
		{"injection attempt", "acc:*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("account_id", tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDeviceLabel(t *testing.T) {
	if err := ValidateDeviceLabel(""); err != nil {
		t.Errorf("empty label is optional, got %v", err)
	}
	if err := ValidateDeviceLabel("Living Room TV"); err != nil {
		t.Errorf("ValidateDeviceLabel() error = %v", err)
	}
	if err := ValidateDeviceLabel(strings.Repeat("x", 101)); err == nil {
		t.Error("over-long label should be rejected")
	}
	if err := ValidateDeviceLabel(string([]byte{0xff, 0xfe})); err == nil {
		t.Error("invalid UTF-8 should be rejected")
	}
}
