package app

import (
	"context"
	"testing"

	"meeting_cycle_bot/internal/domain/user"
	idb "meeting_cycle_bot/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bootstrapAdmin int64 = 100

func newAdminService(t *testing.T) *AdminService {
	t.Helper()
	return NewAdminService(idb.NewUserRepository(newTestDB(t), idb.SQLite), bootstrapAdmin, testLog())
}

func TestAdminService_AuthorizeBootstrapAdmin(t *testing.T) {
	svc := newAdminService(t)
	u, err := svc.Authorize(context.Background(), bootstrapAdmin)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	_, err = svc.Authorize(context.Background(), 555)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAdminService_AddUserAndRoles(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()

	u, err := svc.AddUser(ctx, bootstrapAdmin, 200, user.RoleAssistant, " Beatriz ")
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", u.Name)

	got, err := svc.Authorize(ctx, 200)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin())

	_, err = svc.AddUser(ctx, 200, 300, user.RoleAssistant, "Carlos")
	assert.ErrorIs(t, err, ErrNotAuthorized, "assistants cannot manage users")

	_, err = svc.AddUser(ctx, bootstrapAdmin, 200, user.RoleAssistant, "Beatriz")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.SetRole(ctx, bootstrapAdmin, 200, user.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.AddUser(ctx, 200, 300, user.RoleAssistant, "Carlos")
	assert.NoError(t, err)

	_, err = svc.SetRole(ctx, bootstrapAdmin, bootstrapAdmin, user.RoleAssistant)
	assert.ErrorIs(t, err, ErrCannotChangeBootstrapAdmin)
	_, err = svc.SetRole(ctx, bootstrapAdmin, 999, user.RoleAdmin)
	assert.ErrorIs(t, err, idb.ErrUserNotFound)
}

func TestAdminService_DeactivateAndReactivate(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()
	_, err := svc.AddUser(ctx, bootstrapAdmin, 200, user.RoleAssistant, "Beatriz")
	require.NoError(t, err)

	_, err = svc.DeactivateUser(ctx, bootstrapAdmin, 200)
	require.NoError(t, err)
	_, err = svc.Authorize(ctx, 200)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.DeactivateUser(ctx, bootstrapAdmin, 200)
	assert.ErrorIs(t, err, ErrUserAlreadyInactive)

	u, err := svc.AddUser(ctx, bootstrapAdmin, 200, user.RoleAdmin, "Bia")
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Equal(t, user.RoleAdmin, u.Role)

	all, err := svc.ListUsers(ctx, bootstrapAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAdminService_Recipients(t *testing.T) {
	svc := newAdminService(t)
	ctx := context.Background()
	_, err := svc.AddUser(ctx, bootstrapAdmin, 200, user.RoleAssistant, "Beatriz")
	require.NoError(t, err)
	_, err = svc.AddUser(ctx, bootstrapAdmin, 300, user.RoleAssistant, "Carlos")
	require.NoError(t, err)
	_, err = svc.DeactivateUser(ctx, bootstrapAdmin, 300)
	require.NoError(t, err)

	ids, err := svc.Recipients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{bootstrapAdmin, 200}, ids)
}
