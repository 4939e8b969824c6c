package auth

import (
	"fmt"
	"os"
	"strings"
)

// weakPasswordList contains common passwords rejected at startup.
var weakPasswordList = []string{
	"admin",
	"password",
	"123456",
	"secret",
	"admin123",
	"password123",
	"123456789",
	"12345678",
	"qwerty",
	"abc123",
	"letmein",
	"welcome",
	"password1",
	"test",
	"test123",
	"default",
	"root",
}

// minPasswordLength is the minimum admin password length.
const minPasswordLength = 12

// ValidateAdminCredentials checks the admin credentials from the environment
// at startup. The server must refuse to boot with empty or weak credentials;
// discovering that at the first login attempt is too late.
func ValidateAdminCredentials() error {
	user := os.Getenv("ADMIN_USER")
	pass := os.Getenv("ADMIN_USER_PASSWORD")

	if user == "" {
		return fmt.Errorf("admin credentials validation failed: ADMIN_USER must not be empty")
	}

	if pass == "" {
		return fmt.Errorf("admin credentials validation failed: ADMIN_USER_PASSWORD must not be empty")
	}

	if len(pass) < minPasswordLength {
		return fmt.Errorf("admin credentials validation failed: ADMIN_USER_PASSWORD must be at least %d characters (current length: %d)", minPasswordLength, len(pass))
	}

	if isRepeatedChar(pass) {
		return fmt.Errorf("admin credentials validation failed: ADMIN_USER_PASSWORD must not be a repeated character")
	}

	lowerPass := strings.ToLower(pass)
	for _, weak := range weakPasswordList {
		if lowerPass == weak {
			return fmt.Errorf("admin credentials validation failed: ADMIN_USER_PASSWORD must not be a weak password")
		}

		// Catches thin variations like "admin1234567890".
		if strings.HasPrefix(lowerPass, weak) && len(pass) < minPasswordLength+5 {
			return fmt.Errorf("admin credentials validation failed: ADMIN_USER_PASSWORD must not be based on common weak passwords")
		}
	}

	return nil
}

// WeakPasswordList returns a copy of the rejected password list for provider
// configuration.
func WeakPasswordList() []string {
	out := make([]string, len(weakPasswordList))
	copy(out, weakPasswordList)
	return out
}

// MinPasswordLength returns the minimum password length for provider
// configuration.
func MinPasswordLength() int {
	return minPasswordLength
}

func isRepeatedChar(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}
