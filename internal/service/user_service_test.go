package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
)

func newUserService(users *fakeUsers) UserService {
	privs := []model.Privilege{
		{ID: 1, Code: model.PrivSaleCreate},
		{ID: 2, Code: model.PrivSaleView},
		{ID: 3, Code: model.PrivReportView},
	}
	roles := &fakeRoles{roles: map[uint]model.Role{
		3: {ID: 3, Code: model.RoleCashier, Privileges: privs[:2]},
	}}
	return NewUserService(users, &fakePrivileges{all: privs}, roles)
}

func TestCreateUser_AssignsRolePrivileges(t *testing.T) {
	users := newFakeUsers()
	svc := newUserService(users)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "Caixa@Gesso.com", Password: "secret1", FullName: "Caixa", RoleID: 3}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "caixa@gesso.com", u.Email)
	assert.ElementsMatch(t, []string{model.PrivSaleCreate, model.PrivSaleView}, u.PrivilegeCodes())
	assert.True(t, u.CheckPassword("secret1"))

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "caixa@gesso.com", Password: "secret1", FullName: "Outro", RoleID: 3}, cashier)
	assert.Equal(t, apperror.CodeDuplicate, mustCode(t, err))

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "x@gesso.com", Password: "secret1", FullName: "X", RoleID: 9}, cashier)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "bad", Password: "1", FullName: "X", RoleID: 3}, cashier)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateUserPrivilegesAndDelete(t *testing.T) {
	users := newFakeUsers()
	svc := newUserService(users)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "c@gesso.com", Password: "secret1", FullName: "C", RoleID: 3}, cashier)
	require.NoError(t, err)

	updated, err := svc.UpdateUserPrivileges(ctx, u.ID, []string{model.PrivReportView}, cashier)
	require.NoError(t, err)
	assert.Equal(t, []string{model.PrivReportView}, updated.PrivilegeCodes())

	_, err = svc.UpdateUserPrivileges(ctx, u.ID, []string{"nope"}, cashier)
	assert.True(t, apperror.IsValidation(err))

	self := Actor{ID: u.ID.String()}
	assert.Error(t, svc.DeleteUser(ctx, u.ID, self))
	require.NoError(t, svc.DeleteUser(ctx, u.ID, cashier))
	_, err = svc.GetUserByID(ctx, u.ID)
	assert.True(t, apperror.IsNotFound(err))
}
