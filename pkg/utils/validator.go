package utils

import (
	"fmt"
	"strings"
)

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be within 1-65535: %d", port)
	}
	return nil
}

// IsCredentialRune reports whether r may appear in a credential that is
// interpolated into a shell command line.
func IsCredentialRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}

// SanitizeCredential keeps only [A-Za-z0-9_-], in their original order.
// It must run before any user value reaches a command template.
func SanitizeCredential(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if IsCredentialRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
