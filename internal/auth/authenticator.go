// Package auth handles account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/famiglia/internal/models"
)

// Authenticator registers and verifies household accounts.
// PasswordAuthenticator is the only implementation today.
type Authenticator interface {
	// Register creates an account. It returns ErrEmailExists when the email is taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user matching email and credential, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is stored.
	ValidateCredential(credential string) error
}
