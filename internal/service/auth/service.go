// Package auth holds the framework-agnostic authentication service. HTTP
// specifics (JWT parsing, middleware) live in the handler layer; this package
// only knows about credentials and providers.
package auth

import (
	"context"
	"strings"
)

// Credentials carries a username and password pair.
type Credentials struct {
	Username string
	Password string
}

// CredentialRequirements describes the password policy a provider enforces.
type CredentialRequirements struct {
	MinPasswordLength int
	WeakPasswords     []string
}

// AuthProvider is implemented by authentication backends.
type AuthProvider interface {
	// ValidateCredentials validates user credentials.
	ValidateCredentials(ctx context.Context, creds Credentials) error

	// IdentifyUser returns the role for a known user, or an error for an
	// unknown one.
	IdentifyUser(ctx context.Context, email string) (string, error)

	// GetRequirements returns the provider's credential requirements.
	GetRequirements() CredentialRequirements

	// Name returns the provider name.
	Name() string
}

// AuthService handles authentication business logic.
type AuthService struct {
	provider        AuthProvider
	publicEndpoints []string
}

// NewAuthService creates an authentication service backed by the given
// provider.
func NewAuthService(provider AuthProvider, publicEndpoints []string) *AuthService {
	return &AuthService{
		provider:        provider,
		publicEndpoints: publicEndpoints,
	}
}

// ValidateCredentials validates user credentials via the configured provider.
func (s *AuthService) ValidateCredentials(ctx context.Context, creds Credentials) error {
	return s.provider.ValidateCredentials(ctx, creds)
}

// IsPublicEndpoint reports whether path matches a configured public endpoint
// prefix.
func (s *AuthService) IsPublicEndpoint(path string) bool {
	for _, endpoint := range s.publicEndpoints {
		if strings.HasPrefix(path, endpoint) {
			return true
		}
	}
	return false
}

// GetProvider returns the configured authentication provider.
func (s *AuthService) GetProvider() AuthProvider {
	return s.provider
}
