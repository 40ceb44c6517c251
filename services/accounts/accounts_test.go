package accounts

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"newsfeed/initializer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func testService(t *testing.T) *Service {
	t.Helper()
	logger := zaptest.NewLogger(t)
	db, err := initializer.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	require.NoError(t, initializer.Migrate(db, logger))
	return NewService(db).WithCost(bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "  alice ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret", user.Password)
	assert.NotEqual(t, uuid.Nil, user.ID)

	authed, err := service.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = service.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, "bob", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	found, err := service.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = service.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	_, err = service.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = service.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Register(ctx, "carol", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Register(ctx, strings.Repeat("x", 151), "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Register(ctx, "dave", strings.Repeat("p", 73))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
