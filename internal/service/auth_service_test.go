package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
	"gesso-pos/internal/ws"
	"gesso-pos/pkg/jwt"
)

func newOperator(t *testing.T, email, password string, active bool) *model.User {
	t.Helper()
	u := &model.User{
		Email:      email,
		FullName:   "Maria Caixa",
		IsActive:   active,
		Role:       &model.Role{ID: 3, Code: model.RoleCashier},
		Privileges: []model.Privilege{{Code: model.PrivSaleCreate}},
	}
	u.ID = model.NewID()
	require.NoError(t, u.SetPassword(password))
	return u
}

func TestLoginAndValidate(t *testing.T) {
	op := newOperator(t, "maria@gesso.com", "secret1", true)
	users := newFakeUsers(op)
	events := &recordingPublisher{}
	svc := NewAuthService(users, jwt.NewIssuer("k", time.Hour, "gesso-pos"), events).(*authService)
	ctx := context.Background()

	resp, err := svc.Login(ctx, " Maria@Gesso.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, []string{model.PrivSaleCreate}, resp.Privileges)

	v, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, v.User.ID)

	// a second login invalidates the first token
	_, err = svc.Login(ctx, "maria@gesso.com", "secret1")
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.Equal(t, apperror.CodeUnauthorized, mustCode(t, err))

	require.NoError(t, svc.Heartbeat(ctx, op.ID))
	assert.Len(t, events.ofType(ws.EventUserStatus), 1)
}

func TestLogin_Rejections(t *testing.T) {
	active := newOperator(t, "a@gesso.com", "secret1", true)
	inactive := newOperator(t, "b@gesso.com", "secret1", false)
	svc := NewAuthService(newFakeUsers(active, inactive), jwt.NewIssuer("k", time.Hour, "gesso-pos"), nil)
	ctx := context.Background()

	_, err := svc.Login(ctx, "a@gesso.com", "wrong")
	assert.Equal(t, apperror.CodeUnauthorized, mustCode(t, err))
	_, err = svc.Login(ctx, "nobody@gesso.com", "secret1")
	assert.Equal(t, apperror.CodeUnauthorized, mustCode(t, err))
	_, err = svc.Login(ctx, "b@gesso.com", "secret1")
	assert.Equal(t, apperror.CodeForbidden, mustCode(t, err))
}

func TestValidateToken_InactivityTimeout(t *testing.T) {
	op := newOperator(t, "maria@gesso.com", "secret1", true)
	svc := NewAuthService(newFakeUsers(op), jwt.NewIssuer("k", time.Hour, "gesso-pos"), nil).(*authService)
	ctx := context.Background()

	resp, err := svc.Login(ctx, "maria@gesso.com", "secret1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(DefaultSessionTimeout + time.Minute) }
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.Equal(t, apperror.CodeUnauthorized, mustCode(t, err))
}

func TestChangePassword(t *testing.T) {
	op := newOperator(t, "maria@gesso.com", "secret1", true)
	users := newFakeUsers(op)
	svc := NewAuthService(users, jwt.NewIssuer("k", time.Hour, "gesso-pos"), nil)
	ctx := context.Background()

	assert.Error(t, svc.ChangePassword(ctx, "maria@gesso.com", "wrong", "newpass"))
	assert.True(t, apperror.IsValidation(svc.ChangePassword(ctx, "maria@gesso.com", "secret1", "123")))
	require.NoError(t, svc.ChangePassword(ctx, "maria@gesso.com", "secret1", "newpass"))

	_, err := svc.Login(ctx, "maria@gesso.com", "newpass")
	assert.NoError(t, err)
}

func mustCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}
