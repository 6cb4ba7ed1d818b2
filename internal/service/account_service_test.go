package service

import (
	"context"
	"testing"
	"time"

	"pos-service/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountFixture() (*AccountService, *fakeStore) {
	st := newFakeStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAccountService(st, tokens), st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAccountFixture()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "shopowner", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, user.HasPaid)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)

	_, token, err = svc.Login(ctx, "shopowner", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterValidation(t *testing.T) {
	svc, st := newAccountFixture()

	_, _, err := svc.Register(context.Background(), "", "short")
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "username")
	assert.Contains(t, fieldErrs, "password")
	assert.Empty(t, st.users)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAccountFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "shopowner", "s3cretpass")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "shopowner", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
