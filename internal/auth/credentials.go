package auth

import (
	"context"
	"errors"

	"gestor/internal/models"
)

// UserReader is the narrow read surface the credential store needs.
// Implementations return ErrNotFound when no user matches.
type UserReader interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// CredentialStore verifies login credentials against stored hashes.
// It never writes; last-login bookkeeping belongs to callers.
type CredentialStore struct {
	users UserReader
}

func NewCredentialStore(users UserReader) *CredentialStore {
	return &CredentialStore{users: users}
}

// Pre-computed bcrypt hash of an unguessable value. Compared against
// when the email does not match any user so that the not-found path
// costs the same as a real password check.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Verify looks up the user by exact email and checks the password.
// It distinguishes ErrUserNotFound, ErrUserInactive and
// ErrBadCredential; the transport layer collapses all three into one
// generic response so clients cannot enumerate accounts.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = CheckPassword(dummyHash, password)
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsActive {
		_ = CheckPassword(dummyHash, password)
		return nil, ErrUserInactive
	}
	if err := CheckPassword(u.PasswordHash, password); err != nil {
		return nil, ErrBadCredential
	}
	return u, nil
}
