package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateIdentifier validates an entity, transformer or instance identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "%s too long (max 256 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", kind)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "%s has leading or trailing whitespace: %q", kind, id)
	}

	return nil
}

// ValidateTemperature checks that a temperature is a finite value in [0, 1].
func ValidateTemperature(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return Config("temperature must be within [0, 1], got %v", t)
	}
	return nil
}

// ValidateCanvas checks that both canvas dimensions are positive and finite.
func ValidateCanvas(width, height float64) error {
	if !(width > 0) || math.IsInf(width, 0) {
		return Config("canvas width must be positive, got %v", width)
	}
	if !(height > 0) || math.IsInf(height, 0) {
		return Config("canvas height must be positive, got %v", height)
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a hex color string such as "#1f77b4".
func ValidateColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return Config("invalid color: %q (expected #rgb or #rrggbb)", color)
	}
	return nil
}
