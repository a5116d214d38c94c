package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// IDRegex validates account, device, content and episode identifiers.
	IDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateID validates an opaque identifier (account, device, content,
// episode).
func ValidateID(field, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(id) > 128 {
		return fmt.Errorf("%s is too long (max 128 characters)", field)
	}
	if !IDRegex.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only letters, numbers, _, - allowed)", field)
	}
	return nil
}

// ValidateDeviceLabel validates the human-readable device label shown in
// sign-out dialogs.
func ValidateDeviceLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil // optional
	}
	if !utf8.ValidString(label) {
		return fmt.Errorf("device label is not valid UTF-8")
	}
	if utf8.RuneCountInString(label) > 100 {
		return fmt.Errorf("device label is too long (max 100 characters)")
	}
	return nil
}
