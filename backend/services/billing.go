package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"learning_platform/backend/mail"
	"learning_platform/backend/models"
)

type SubscribeInput struct {
	PlanID uint `json:"plan_id" validate:"required"`
}

type PaymentView struct {
	PlanName    string    `json:"plan_name"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
}

type SubscriptionView struct {
	ID        uint      `json:"id"`
	PlanID    uint      `json:"plan_id"`
	PlanName  string    `json:"plan_name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	Valid     bool      `json:"valid"`
}

type BillingService struct {
	Deps
}

func NewBillingService(deps Deps) *BillingService {
	return &BillingService{Deps: deps}
}

func (s *BillingService) Plans(ctx context.Context) ([]models.Plan, error) {
	plans := []models.Plan{}
	if err := s.DB.WithContext(ctx).Order("price, id").Find(&plans).Error; err != nil {
		return nil, errors.Wrap(err, "list plans")
	}
	return plans, nil
}

// Subscribe records a subscription and its payment together. The notification,
// activity entry and email follow the commit and never fail the call.
// Holding several active subscriptions at once is allowed.
func (s *BillingService) Subscribe(ctx context.Context, actor Actor, planID uint) (*models.Subscription, error) {
	db := s.DB.WithContext(ctx)

	var plan models.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, errors.Wrap(err, "find plan")
	}

	now := s.now()
	sub := models.Subscription{
		UserID:    actor.UserID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		Status:    models.SubscriptionActive,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return errors.Wrap(err, "create subscription")
		}
		payment := models.Payment{
			UserID:      actor.UserID,
			PlanID:      plan.ID,
			Amount:      plan.Price,
			PaymentDate: now,
		}
		return errors.Wrap(tx.Create(&payment).Error, "create payment")
	})
	if err != nil {
		return nil, err
	}
	sub.Plan = &plan

	if err := appendNotification(db, actor.UserID,
		fmt.Sprintf("Your %s subscription is active until %s", plan.Name, sub.EndDate.Format("2006-01-02"))); err != nil {
		s.Logger.Warn("subscription notification not recorded", "user_id", actor.UserID, "error", err)
	}
	if err := appendActivity(db, actor.UserID, "subscribe",
		fmt.Sprintf("Subscribed to plan %d (%s)", plan.ID, plan.Name), now); err != nil {
		s.Logger.Warn("subscription activity not recorded", "user_id", actor.UserID, "error", err)
	}
	s.sendSubscriptionEmail(ctx, actor, &plan, &sub)
	return &sub, nil
}

func (s *BillingService) sendSubscriptionEmail(ctx context.Context, actor Actor, plan *models.Plan, sub *models.Subscription) {
	if s.Mailer == nil {
		return
	}
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, actor.UserID).Error; err != nil {
		s.Logger.Warn("subscription email skipped", "user_id", actor.UserID, "error", err)
		return
	}
	s.Mailer.SendMessages(&mail.Message{
		ToName:  user.Name,
		ToEmail: user.Email,
		Subject: "Subscription confirmed",
		Body: fmt.Sprintf("Hi %s,\n\nThank you for subscribing to %s. Your subscription is valid until %s.",
			user.Name, plan.Name, sub.EndDate.Format("2006-01-02")),
	})
}

// Payments lists the caller's payments, newest first.
func (s *BillingService) Payments(ctx context.Context, actor Actor) ([]PaymentView, error) {
	var payments []models.Payment
	err := s.DB.WithContext(ctx).Preload("Plan").
		Where("user_id = ?", actor.UserID).
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list payments")
	}

	out := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		view := PaymentView{Amount: p.Amount, PaymentDate: p.PaymentDate}
		if p.Plan != nil {
			view.PlanName = p.Plan.Name
		}
		out = append(out, view)
	}
	return out, nil
}

// Subscriptions lists the caller's subscriptions with validity evaluated now.
func (s *BillingService) Subscriptions(ctx context.Context, actor Actor) ([]SubscriptionView, error) {
	var subs []models.Subscription
	err := s.DB.WithContext(ctx).Preload("Plan").
		Where("user_id = ?", actor.UserID).
		Order("start_date DESC, id DESC").
		Find(&subs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list subscriptions")
	}

	now := s.now()
	out := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		view := SubscriptionView{
			ID:        sub.ID,
			PlanID:    sub.PlanID,
			StartDate: sub.StartDate,
			EndDate:   sub.EndDate,
			Status:    sub.Status,
			Valid:     sub.IsValid(now),
		}
		if sub.Plan != nil {
			view.PlanName = sub.Plan.Name
		}
		out = append(out, view)
	}
	return out, nil
}
