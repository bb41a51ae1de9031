package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning_platform/backend/models"
	"learning_platform/backend/services"
	"learning_platform/backend/testutil"
	"learning_platform/backend/utils"
)

func mockPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestSaveStaff(t *testing.T) {
	db := testutil.DB(t)
	admin := services.NewAdminService(services.Deps{DB: db, Config: testutil.Config(), Logger: utils.NopLogger()})

	t.Run("empty password", func(t *testing.T) {
		mockPassword(t, "", nil)
		err := saveStaff(context.Background(), admin, "root", &bytes.Buffer{})
		assert.ErrorIs(t, err, errEmptyPassword)
	})

	t.Run("prompt fails", func(t *testing.T) {
		boom := errors.New("no tty")
		mockPassword(t, "", boom)
		err := saveStaff(context.Background(), admin, "root", &bytes.Buffer{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("creates then updates", func(t *testing.T) {
		mockPassword(t, "s3cret-pass", nil)
		out := &bytes.Buffer{}
		require.NoError(t, saveStaff(context.Background(), admin, "root", out))
		assert.Contains(t, out.String(), `Staff account "root" created`)

		out.Reset()
		require.NoError(t, saveStaff(context.Background(), admin, "root", out))
		assert.Contains(t, out.String(), "updated")

		var count int64
		db.Model(&models.AdminUser{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func TestCLICommands(t *testing.T) {
	app := newCLI()
	names := []string{}
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"serve", "migrate", "create-staff"}, names)
	assert.NotNil(t, app.Action)
}
