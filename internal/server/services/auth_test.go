package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, store *memStore, allowReset bool) (*AuthService, *auth.TokenIssuer) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	issuer := auth.NewTokenIssuer("k", time.Hour)
	svc := NewAuthService(db, &fakeRepoManager{store: store}, auth.NewBcryptHasher(4), issuer, allowReset, logging.Nop{})
	return svc, issuer
}

func TestRegisterLoginVerify_SameIdentity(t *testing.T) {
	svc, issuer := newAuthService(t, newMemStore(), true)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.io", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", reg.User.Email)

	login, err := svc.Login(ctx, "a@x.io", "pw1")
	require.NoError(t, err)

	id, err := issuer.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id.UserID)
	assert.Equal(t, "a@x.io", id.Email)
}

func TestRegister_DuplicateConflictKeepsHash(t *testing.T) {
	store := newMemStore()
	svc, _ := newAuthService(t, store, true)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.io", "pw1")
	require.NoError(t, err)
	before := store.users["a@x.io"].PasswordHash

	_, err = svc.Register(ctx, "a@x.io", "pw2")
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	assert.Equal(t, before, store.users["a@x.io"].PasswordHash)

	_, err = svc.Login(ctx, "a@x.io", "pw1")
	require.NoError(t, err)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	store := newMemStore()
	svc, _ := newAuthService(t, store, true)
	ctx := context.Background()

	_, err := svc.Register(ctx, "  A@X.io ", "pw1")
	require.NoError(t, err)
	_, ok := store.users["a@x.io"]
	assert.True(t, ok)

	_, err = svc.Login(ctx, "a@X.IO", "pw1")
	require.NoError(t, err)
}

func TestRegister_ValidationAndHashErrors(t *testing.T) {
	svc, _ := newAuthService(t, newMemStore(), true)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"empty email", "", "pw"},
		{"blank email", "   ", "pw"},
		{"empty password", "a@x.io", ""},
		{"password too long", "a@x.io", strings.Repeat("p", 73)},
		{"email too long", strings.Repeat("a", 250) + "@x.io1", "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegister_StoreFailureIsWrapped(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	svc, _ := newAuthService(t, store, true)

	_, err := svc.Register(context.Background(), "a@x.io", "pw")
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.False(t, errors.Is(err, common.ErrorConflict))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLogin_UniformAuthError(t *testing.T) {
	svc, _ := newAuthService(t, newMemStore(), true)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.io", "pw1")
	require.NoError(t, err)

	_, errWrong := svc.Login(ctx, "a@x.io", "nope")
	_, errUnknown := svc.Login(ctx, "b@x.io", "pw1")

	require.ErrorIs(t, errWrong, common.ErrorAuth)
	require.ErrorIs(t, errUnknown, common.ErrorAuth)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())

	_, err = svc.Login(ctx, "", "pw1")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newAuthService(t, newMemStore(), true)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.io", "old")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "a@x.io", "new"))

	_, err = svc.Login(ctx, "a@x.io", "old")
	require.ErrorIs(t, err, common.ErrorAuth)
	_, err = svc.Login(ctx, "a@x.io", "new")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, "ghost@x.io", "new")
	require.ErrorIs(t, err, common.ErrorNotFound)

	err = svc.ResetPassword(ctx, "a@x.io", "")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestResetPassword_Disabled(t *testing.T) {
	svc, _ := newAuthService(t, newMemStore(), false)

	err := svc.ResetPassword(context.Background(), "a@x.io", "new")
	require.ErrorIs(t, err, common.ErrFeatureDisabled)
}
