package models

import "time"

const (
	SubscriptionActive   = "active"
	SubscriptionExpired  = "expired"
	SubscriptionCanceled = "canceled"
)

type Plan struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:100;uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Price        float64 `gorm:"not null" json:"price" validate:"gte=0"`
	DurationDays int     `gorm:"not null" json:"duration_days" validate:"min=1"`
}

type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id" validate:"required"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PlanID    uint      `gorm:"index;not null" json:"plan_id" validate:"required"`
	Plan      *Plan     `gorm:"constraint:OnDelete:RESTRICT" json:"plan,omitempty"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`
	Status    string    `gorm:"size:20;not null;default:active;index" json:"status" validate:"required,oneof=active expired canceled"`
}

// IsValid reports whether the subscription grants access at now. The stored
// status is never advanced to expired, so the end date is always checked.
func (s Subscription) IsValid(now time.Time) bool {
	return s.Status == SubscriptionActive && !s.EndDate.Before(now)
}

// Payment rows form the billing ledger, so a user with payments cannot be deleted.
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id" validate:"required"`
	User        *User     `gorm:"constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	PlanID      uint      `gorm:"index;not null" json:"plan_id" validate:"required"`
	Plan        *Plan     `gorm:"constraint:OnDelete:RESTRICT" json:"plan,omitempty"`
	Amount      float64   `gorm:"not null" json:"amount" validate:"gte=0"`
	PaymentDate time.Time `gorm:"not null;index" json:"payment_date"`
}
