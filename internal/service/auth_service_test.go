package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inspection-service/internal/auth"
	"inspection-service/internal/model"
	"inspection-service/internal/repository"
)

const testSecret = "test-secret"

func newAuthEnv(t *testing.T) (*AuthService, *model.User) {
	t.Helper()
	db := newTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("campo123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Name:         "Ana Souza",
		Email:        "ana.souza@example.com",
		PasswordHash: string(hash),
		Role:         model.UserRoleField,
	}
	userRepo := repository.NewUserRepository(db)
	require.NoError(t, userRepo.Create(context.Background(), user))

	issuer := auth.NewIssuer(testSecret, auth.DefaultAccessTTL)
	return NewAuthService(userRepo, issuer), user
}

func TestMobileLoginIssuesToken(t *testing.T) {
	svc, seeded := newAuthEnv(t)

	user, token, err := svc.MobileLogin(context.Background(), "ana.souza@example.com", "campo123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, seeded.ID, user.ID)

	claims, err := auth.NewParser(testSecret).Parse(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
	assert.Equal(t, seeded.Email, claims.Email)
	assert.Equal(t, model.UserRoleField, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultAccessTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestMobileLoginEmailCaseInsensitive(t *testing.T) {
	svc, _ := newAuthEnv(t)

	_, _, err := svc.MobileLogin(context.Background(), "  Ana.Souza@Example.com ", "campo123")
	require.NoError(t, err)
}

func TestMobileLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ana.souza@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "campo123"},
		{"empty email", "", "campo123"},
		{"empty password", "ana.souza@example.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, token, err := svc.MobileLogin(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, user)
			assert.Empty(t, token)
		})
	}
}
