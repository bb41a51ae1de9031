// Package testutil provides an in-memory store and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"learning_platform/backend/config"
	"learning_platform/backend/mail"
	"learning_platform/backend/models"
	"learning_platform/backend/utils"
)

const Password = "secret123"

var dbSeq int64

func init() {
	utils.PasswordCost = bcrypt.MinCost
}

// Config returns a configuration suitable for tests.
func Config() *config.Config {
	return &config.Config{
		Env:               "test",
		AppName:           "Learning Platform",
		DBDriver:          "sqlite",
		JWTSecret:         "test-jwt-secret",
		JWTExpiration:     time.Hour,
		SessionSecret:     "test-session-secret",
		SessionExpiration: time.Hour,
		MailFrom:          "noreply@test.local",
	}
}

// DB opens a private in-memory database with every model migrated.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := fmt.Sprintf("file:lp_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(utils.SQLiteDSN(name)), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(tb, err)

	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(tb, utils.Migrate(db))
	return db
}

// MailRecorder collects messages instead of sending them.
type MailRecorder struct {
	mu       sync.Mutex
	messages []*mail.Message
}

func (r *MailRecorder) SendMessages(messages ...*mail.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, messages...)
}

func (r *MailRecorder) Messages() []*mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*mail.Message(nil), r.messages...)
}

func CreateUser(tb testing.TB, db *gorm.DB, email, role string) *models.User {
	tb.Helper()
	hash, err := utils.HashPassword(Password)
	require.NoError(tb, err)
	user := &models.User{
		Name:         email,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(tb, db.Create(user).Error)
	return user
}

func CreateCourse(tb testing.TB, db *gorm.DB, instructor *models.User, title, status string, premium bool) *models.Course {
	tb.Helper()
	course := &models.Course{
		Title:        title,
		Description:  title + " description",
		InstructorID: instructor.ID,
		Status:       status,
		IsPremium:    premium,
	}
	require.NoError(tb, db.Create(course).Error)
	return course
}

func CreatePlan(tb testing.TB, db *gorm.DB, name string, price float64, days int) *models.Plan {
	tb.Helper()
	plan := &models.Plan{Name: name, Price: price, DurationDays: days}
	require.NoError(tb, db.Create(plan).Error)
	return plan
}

func CreateSubscription(tb testing.TB, db *gorm.DB, user *models.User, plan *models.Plan, end time.Time, status string) *models.Subscription {
	tb.Helper()
	sub := &models.Subscription{
		UserID:    user.ID,
		PlanID:    plan.ID,
		StartDate: end.AddDate(0, 0, -plan.DurationDays),
		EndDate:   end.UTC(),
		Status:    status,
	}
	require.NoError(tb, db.Create(sub).Error)
	return sub
}
