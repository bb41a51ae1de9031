package services_test

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"learning_platform/backend/services"
	"learning_platform/backend/testutil"
	"learning_platform/backend/utils"
)

type env struct {
	db   *gorm.DB
	mail *testutil.MailRecorder
	deps services.Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	rec := &testutil.MailRecorder{}
	return &env{
		db:   db,
		mail: rec,
		deps: services.Deps{
			DB:     db,
			Config: testutil.Config(),
			Mailer: rec,
			Logger: utils.NopLogger(),
		},
	}
}

// at pins the clock of a copy of the dependencies.
func (e *env) at(now time.Time) services.Deps {
	d := e.deps
	d.Clock = func() time.Time { return now }
	return d
}
