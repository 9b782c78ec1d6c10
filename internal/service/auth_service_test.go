package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunde51/task-management-app/internal/config"
)

func newAuthFixture() (*AuthService, *memStore) {
	store := newMemStore()
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            4,
	}
	return NewAuthService(cfg, &fakeUserRepo{s: store}), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Password:  "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "hunter2hunter2", user.HashedPassword)

	loggedIn, token, expiresAt, err := svc.Login(ctx, "alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, store := newAuthFixture()
	ctx := context.Background()
	store.addUser("alice")

	_, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "new@example.com",
		Password: "hunter2hunter2",
	})
	domainErr := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, "username already registered", domainErr.Message)

	_, err = svc.Register(ctx, RegisterInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	domainErr = requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, "email already registered", domainErr.Message)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, _, unknownErr := svc.Login(ctx, "nobody", "whatever")
	unknown := requireDomainError(t, unknownErr, http.StatusUnauthorized)

	_, _, _, wrongErr := svc.Login(ctx, "alice", "wrong-password")
	wrong := requireDomainError(t, wrongErr, http.StatusUnauthorized)

	assert.Equal(t, unknown.Message, wrong.Message, "unknown user and bad password must look identical")
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, store := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	store.users[user.ID].IsActive = false

	_, _, _, loginErr := svc.Login(ctx, "alice", "hunter2hunter2")
	domainErr := requireDomainError(t, loginErr, http.StatusUnauthorized)
	assert.Equal(t, "user is inactive", domainErr.Message)
}
