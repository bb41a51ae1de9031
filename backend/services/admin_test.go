package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning_platform/backend/models"
	"learning_platform/backend/services"
	"learning_platform/backend/testutil"
	"learning_platform/backend/utils"
)

func TestSaveStaffCreatesThenResets(t *testing.T) {
	e := newEnv(t)
	admin := services.NewAdminService(e.deps)

	staff, created, err := admin.SaveStaff(context.Background(), "root", "first-pass")
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, e.db.Model(staff).Update("is_active", false).Error)
	_, err = admin.Login(context.Background(), "root", "first-pass")
	assert.ErrorIs(t, err, services.ErrAccountInactive)

	again, created, err := admin.SaveStaff(context.Background(), "root", "second-pass")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, staff.ID, again.ID)

	logged, err := admin.Login(context.Background(), "root", "second-pass")
	require.NoError(t, err)
	require.NotNil(t, logged.LastLogin)

	_, err = admin.Login(context.Background(), "root", "first-pass")
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	_, _, err = admin.SaveStaff(context.Background(), "root", "123")
	assert.ErrorIs(t, err, utils.ErrBadRequest)
}

func TestEnsurePlanUnused(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "s@example.com", models.RoleStudent)
	used := testutil.CreatePlan(t, e.db, "Used", 10, 30)
	unused := testutil.CreatePlan(t, e.db, "Unused", 10, 30)
	_, err := services.NewBillingService(e.deps).Subscribe(context.Background(),
		services.Actor{UserID: student.ID, Role: student.Role}, used.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, services.EnsurePlanUnused(e.db, used.ID), utils.ErrConflict)
	assert.NoError(t, services.EnsurePlanUnused(e.db, unused.ID))
}
