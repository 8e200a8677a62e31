package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/pkg/utils"
)

func TestSignUpAndSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.accounts.SignUp(ctx, request_models.SignUpRequest{
		Name:     "  Dana  ",
		Email:    "  Dana@Acme.TEST ",
		Password: "correct-horse",
		OrgName:  "Acme Property",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Acme Property", resp.OrgName)

	user, err := f.accountRepo.FindByEmail(ctx, "dana@acme.test")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Dana", user.Name)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	signIn, err := f.accounts.SignIn(ctx, request_models.SignInRequest{Email: "DANA@acme.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.OrgID, signIn.OrgID)
	assert.Equal(t, user.ID.String(), signIn.UserID)

	_, err = f.accounts.SignIn(ctx, request_models.SignInRequest{Email: "dana@acme.test", Password: "wrong-horse"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = f.accounts.SignIn(ctx, request_models.SignInRequest{Email: "nobody@acme.test", Password: "correct-horse"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.tenant(t, "owner@acme.test", "Acme")

	_, err := f.accounts.SignUp(context.Background(), request_models.SignUpRequest{
		Name:     "Other",
		Email:    "OWNER@acme.test",
		Password: "correct-horse",
		OrgName:  "Other Co",
	})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestSignUpValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.SignUp(context.Background(), request_models.SignUpRequest{
		Name:     "Dana",
		Email:    "dana@acme.test",
		Password: "short",
		OrgName:  "Acme",
	})
	var validationErr *utils.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Message)

	taken, err := f.accountRepo.EmailTaken(context.Background(), "dana@acme.test")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestResolveOrgContext(t *testing.T) {
	f := newFixture(t)
	org := f.tenant(t, "owner@acme.test", "Acme")

	assert.Equal(t, "owner@acme.test", org.Email)
	assert.Equal(t, "Acme", org.OrgName)
	assert.Equal(t, db_models.RoleOwner, org.Role)
	assert.True(t, org.IsOwner())
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.tenant(t, "owner@acme.test", "Acme")

	member := org
	member.Role = db_models.RoleMember
	assert.ErrorIs(t, f.accounts.DeleteAccount(ctx, member), utils.ErrNotOwner)

	require.NoError(t, f.accounts.DeleteAccount(ctx, org))

	_, err := f.accounts.ResolveOrgContext(ctx, org.UserID)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = f.accounts.SignIn(ctx, request_models.SignInRequest{Email: "owner@acme.test", Password: "correct-horse"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = f.accounts.SignUp(ctx, request_models.SignUpRequest{
		Name:     "Again",
		Email:    "owner@acme.test",
		Password: "correct-horse",
		OrgName:  "Acme Again",
	})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	assert.Contains(t, f.auditActions(t, org), string(db_models.AuditAccountDeleted))
}
