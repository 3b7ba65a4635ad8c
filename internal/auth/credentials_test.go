package auth

import (
	"context"
	"errors"
	"testing"

	"gestor/internal/models"
)

type fakeUsers struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	err     error
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func newFakeUsers(t *testing.T, users ...*models.User) *fakeUsers {
	t.Helper()
	f := &fakeUsers{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func testUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &models.User{ID: "u-" + email, Email: email, PasswordHash: hash, IsActive: active}
}

func TestVerifyCredentials(t *testing.T) {
	ctx := context.Background()
	active := testUser(t, "ana@example.com", "s3cret", true)
	inactive := testUser(t, "old@example.com", "s3cret", false)
	store := NewCredentialStore(newFakeUsers(t, active, inactive))

	t.Run("success", func(t *testing.T) {
		u, err := store.Verify(ctx, "ana@example.com", "s3cret")
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if u.ID != active.ID {
			t.Fatalf("got user %q, want %q", u.ID, active.ID)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := store.Verify(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("got %v, want ErrUserNotFound", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := store.Verify(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrBadCredential) {
			t.Fatalf("got %v, want ErrBadCredential", err)
		}
	})

	t.Run("inactive user never authenticates", func(t *testing.T) {
		if _, err := store.Verify(ctx, "old@example.com", "s3cret"); !errors.Is(err, ErrUserInactive) {
			t.Fatalf("got %v, want ErrUserInactive", err)
		}
	})

	t.Run("email is matched exactly", func(t *testing.T) {
		if _, err := store.Verify(ctx, "ANA@example.com", "s3cret"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("got %v, want ErrUserNotFound", err)
		}
	})

	t.Run("store failure propagates", func(t *testing.T) {
		broken := NewCredentialStore(&fakeUsers{err: errors.New("connection refused")})
		_, err := broken.Verify(ctx, "ana@example.com", "s3cret")
		if err == nil || errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrBadCredential) {
			t.Fatalf("expected raw store error, got %v", err)
		}
	})
}
