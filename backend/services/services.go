// Package services holds the business rules of the platform. Every operation
// that acts on behalf of a user receives an explicit Actor.
package services

import (
	"time"

	"gorm.io/gorm"

	"learning_platform/backend/config"
	"learning_platform/backend/mail"
	"learning_platform/backend/models"
	"learning_platform/backend/utils"
)

// Actor is the authenticated caller as proven by its access token.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsStudent() bool    { return a.Role == models.RoleStudent }
func (a Actor) IsInstructor() bool { return a.Role == models.RoleInstructor }

type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Mailer mail.EmailService
	Logger *utils.Logger
	// Clock defaults to the current UTC time.
	Clock func() time.Time
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now().UTC()
}

var (
	ErrInvalidCredentials = utils.NewError(utils.ErrUnauthenticated, "Invalid credentials")
	ErrAccountInactive    = utils.NewError(utils.ErrUnauthenticated, "Account is inactive")
	ErrEmailTaken         = utils.NewError(utils.ErrConflict, "Email already registered")
	ErrUserNotFound       = utils.NewError(utils.ErrNotFound, "User not found")
	ErrCourseNotFound     = utils.NewError(utils.ErrNotFound, "Course not found")
	ErrEnrollmentNotFound = utils.NewError(utils.ErrNotFound, "Enrollment not found")
	ErrPlanNotFound       = utils.NewError(utils.ErrNotFound, "Plan not found")
	ErrPremiumRequired    = utils.NewError(utils.ErrForbidden, "An active subscription is required to access this course")
	ErrNotCourseOwner     = utils.NewError(utils.ErrForbidden, "You don't have permission to edit this course")
	ErrRoleRequired       = utils.NewError(utils.ErrForbidden, "Forbidden")
	ErrPlanInUse          = utils.NewError(utils.ErrConflict, "Plan is referenced by subscriptions or payments")
	ErrNothingToMark      = utils.NewError(utils.ErrBadRequest, "Provide mark_all or ids")
	ErrWrongPassword      = utils.NewError(utils.ErrBadRequest, "Old password is incorrect")
)

// validSubscriptions scopes a Subscription query to rows valid at now.
func validSubscriptions(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND end_date >= ?", models.SubscriptionActive, now)
	}
}

func appendNotification(tx *gorm.DB, userID uint, message string) error {
	return tx.Create(&models.Notification{UserID: userID, Message: message}).Error
}

func appendActivity(tx *gorm.DB, userID uint, actionType, details string, at time.Time) error {
	return tx.Create(&models.ActivityLog{
		UserID:     userID,
		ActionType: actionType,
		Details:    details,
		Timestamp:  at,
	}).Error
}
