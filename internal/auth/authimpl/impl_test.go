package authimpl

import (
	"context"
	"testing"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/repositories/adminrole"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/errors"
	"github.com/satyapal28/archive-server/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminRepo struct {
	users  map[string]domain.AdminUser // by email
	admins map[string]bool             // by user id
}

func (f *fakeAdminRepo) GetUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	if u, ok := f.users[email]; ok {
		return &u, nil
	}
	return nil, adminrole.ErrNotFound
}

func (f *fakeAdminRepo) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return f.admins[userID], nil
}

func newTestAuth(t *testing.T) *Impl {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.JwtSecret = "test-secret"
	cfg.Auth.TokenHours = 1

	return New(Opts{
		AdminRepo: &fakeAdminRepo{
			users: map[string]domain.AdminUser{
				"owner@example.com":  {ID: "u-admin", Email: "owner@example.com", PasswordHash: string(hash)},
				"viewer@example.com": {ID: "u-viewer", Email: "viewer@example.com", PasswordHash: string(hash)},
			},
			admins: map[string]bool{"u-admin": true},
		},
		Config: cfg,
		Logger: logger.New(logger.Opts{Env: "development"}),
	})
}

func TestLoginAndVerifyRoundTrip(t *testing.T) {
	a := newTestAuth(t)

	token, err := a.Login(context.Background(), "owner@example.com", "sekrit-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-admin", userID)
}

func TestLoginNormalizesEmailCase(t *testing.T) {
	a := newTestAuth(t)

	_, err := a.Login(context.Background(), "  Owner@Example.COM ", "sekrit-pass")
	assert.NoError(t, err)
}

func TestLoginRejectsMalformedEmail(t *testing.T) {
	a := newTestAuth(t)

	_, err := a.Login(context.Background(), "not-an-email", "sekrit-pass")
	assert.True(t, errors.IsInvalidInput(err))
}

func TestLoginWrongPassword(t *testing.T) {
	a := newTestAuth(t)

	_, err := a.Login(context.Background(), "owner@example.com", "wrong")
	assert.True(t, errors.IsUnauthorized(err))
}

func TestLoginUnknownAccountLooksLikeWrongPassword(t *testing.T) {
	a := newTestAuth(t)

	_, err := a.Login(context.Background(), "ghost@example.com", "sekrit-pass")
	assert.True(t, errors.IsUnauthorized(err))
}

func TestLoginNonAdminForbidden(t *testing.T) {
	a := newTestAuth(t)

	_, err := a.Login(context.Background(), "viewer@example.com", "sekrit-pass")
	assert.True(t, errors.IsForbidden(err), "valid credentials are not enough")
}

func TestVerifyRejectsGarbage(t *testing.T) {
	a := newTestAuth(t)

	_, err := a.Verify("definitely-not-a-token")
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	a := newTestAuth(t)
	other := newTestAuth(t)
	other.secretKey = []byte("different-secret")

	token, err := other.Login(context.Background(), "owner@example.com", "sekrit-pass")
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.Error(t, err)
}
