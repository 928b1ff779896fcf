package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskboard-project/backend/models"
)

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	env := newTestEnv()

	user, token, err := env.users.Register(context.Background(), "Carol", "Carol@Example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "carol@example.com", user.Email)

	stored, err := env.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, _, err := env.users.Register(ctx, "", "carol@example.com", "secret123")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = env.users.Register(ctx, "Carol", "carol@example.com", "short")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, _, err := env.users.Register(ctx, "Carol", "carol@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = env.users.Register(ctx, "Other Carol", "CAROL@example.com", "secret456")
	assert.ErrorIs(t, err, models.ErrEmailTaken)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, _, err := env.users.Register(ctx, "Carol", "carol@example.com", "secret123")
	require.NoError(t, err)

	user, token, err := env.users.Login(ctx, "CAROL@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	// Wrong password and unknown email are indistinguishable.
	_, _, err = env.users.Login(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, _, err = env.users.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	refs, err := env.users.SearchUsers(ctx, env.alice, "b")
	require.NoError(t, err)
	assert.Empty(t, refs, "queries under two characters return nothing")

	refs, err = env.users.SearchUsers(ctx, env.alice, "bob")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, env.bob, refs[0].ID)

	// The acting user is excluded from results.
	refs, err = env.users.SearchUsers(ctx, env.alice, "alice")
	require.NoError(t, err)
	assert.Empty(t, refs)
}
