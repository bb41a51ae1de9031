package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"learning_platform/backend/models"
	"learning_platform/backend/services"
	"learning_platform/backend/testutil"
	"learning_platform/backend/utils"
)

func TestSubscribeCreatesSubscriptionAndPayment(t *testing.T) {
	e := newEnv(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	billing := services.NewBillingService(e.at(now))
	student := testutil.CreateUser(t, e.db, "s@example.com", models.RoleStudent)
	plan := testutil.CreatePlan(t, e.db, "Quarterly", 25, 90)
	actor := services.Actor{UserID: student.ID, Role: student.Role}

	sub, err := billing.Subscribe(context.Background(), actor, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.True(t, sub.StartDate.Equal(now))
	assert.True(t, sub.EndDate.Equal(now.AddDate(0, 0, 90)))

	payments, err := billing.Payments(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Quarterly", payments[0].PlanName)
	assert.Equal(t, 25.0, payments[0].Amount)

	var notes, logs int64
	e.db.Model(&models.Notification{}).Where("user_id = ?", student.ID).Count(&notes)
	e.db.Model(&models.ActivityLog{}).Where("user_id = ? AND action_type = ?", student.ID, "subscribe").Count(&logs)
	assert.EqualValues(t, 1, notes)
	assert.EqualValues(t, 1, logs)
	require.Len(t, e.mail.Messages(), 1)

	// a second active subscription is allowed
	_, err = billing.Subscribe(context.Background(), actor, plan.ID)
	require.NoError(t, err)
	subs, err := billing.Subscriptions(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubscribeUnknownPlan(t *testing.T) {
	e := newEnv(t)
	billing := services.NewBillingService(e.deps)
	student := testutil.CreateUser(t, e.db, "s@example.com", models.RoleStudent)

	_, err := billing.Subscribe(context.Background(), services.Actor{UserID: student.ID, Role: student.Role}, 42)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	var n int64
	e.db.Model(&models.Payment{}).Count(&n)
	assert.Zero(t, n)
}

func TestSubscriptionsReportValidityAtReadTime(t *testing.T) {
	e := newEnv(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	billing := services.NewBillingService(e.at(now))
	student := testutil.CreateUser(t, e.db, "s@example.com", models.RoleStudent)
	plan := testutil.CreatePlan(t, e.db, "Monthly", 10, 30)
	testutil.CreateSubscription(t, e.db, student, plan, now.Add(-time.Minute), models.SubscriptionActive)

	subs, err := billing.Subscriptions(context.Background(), services.Actor{UserID: student.ID, Role: student.Role})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, models.SubscriptionActive, subs[0].Status)
	assert.False(t, subs[0].Valid)
}

func TestPlansOrderedByPrice(t *testing.T) {
	e := newEnv(t)
	testutil.CreatePlan(t, e.db, "Yearly", 100, 365)
	testutil.CreatePlan(t, e.db, "Monthly", 10, 30)

	plans, err := services.NewBillingService(e.deps).Plans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Monthly", plans[0].Name)
}

func TestSubscribeRollsBackWhenPaymentFails(t *testing.T) {
	e := newEnv(t)
	billing := services.NewBillingService(e.deps)
	student := testutil.CreateUser(t, e.db, "s@example.com", models.RoleStudent)
	plan := testutil.CreatePlan(t, e.db, "Monthly", 10, 30)

	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:fail_payments", func(tx *gorm.DB) {
		if tx.Statement.Table == "payments" {
			_ = tx.AddError(errors.New("payment store unavailable"))
		}
	}))

	_, err := billing.Subscribe(context.Background(), services.Actor{UserID: student.ID, Role: student.Role}, plan.ID)
	require.Error(t, err)

	var subs, payments, notes int64
	e.db.Model(&models.Subscription{}).Count(&subs)
	e.db.Model(&models.Payment{}).Count(&payments)
	e.db.Model(&models.Notification{}).Count(&notes)
	assert.Zero(t, subs)
	assert.Zero(t, payments)
	assert.Zero(t, notes)
	assert.Empty(t, e.mail.Messages())
}
