package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"learning_platform/backend/models"
	"learning_platform/backend/utils"
)

type StaffLoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AdminService struct {
	Deps
}

func NewAdminService(deps Deps) *AdminService {
	return &AdminService{Deps: deps}
}

// Login authenticates a staff account and stamps its last login.
func (s *AdminService) Login(ctx context.Context, username, password string) (*models.AdminUser, error) {
	db := s.DB.WithContext(ctx)

	var staff models.AdminUser
	if err := db.Where("username = ?", strings.TrimSpace(username)).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find staff")
	}
	if !utils.CheckPassword(password, staff.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !staff.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now()
	staff.LastLogin = &now
	if err := db.Model(&staff).Update("last_login", now).Error; err != nil {
		return nil, errors.Wrap(err, "stamp last login")
	}
	return &staff, nil
}

// ActiveStaff loads a staff account by id, failing unless it is still active.
func (s *AdminService) ActiveStaff(ctx context.Context, id uint) (*models.AdminUser, error) {
	var staff models.AdminUser
	if err := s.DB.WithContext(ctx).First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find staff")
	}
	if !staff.IsActive {
		return nil, ErrAccountInactive
	}
	return &staff, nil
}

// SaveStaff creates an active staff account or resets the password of an
// existing one.
func (s *AdminService) SaveStaff(ctx context.Context, username, password string) (*models.AdminUser, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, utils.BadRequest("username is required")
	}
	if len(password) < 6 {
		return nil, false, utils.BadRequest("password must be at least 6 characters")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, errors.Wrap(err, "hash password")
	}

	db := s.DB.WithContext(ctx)
	var existing []models.AdminUser
	if err := db.Where("username = ?", username).Limit(1).Find(&existing).Error; err != nil {
		return nil, false, errors.Wrap(err, "find staff")
	}
	if len(existing) > 0 {
		staff := existing[0]
		staff.PasswordHash = hash
		staff.IsActive = true
		if err := db.Save(&staff).Error; err != nil {
			return nil, false, errors.Wrap(err, "update staff")
		}
		return &staff, false, nil
	}

	staff := models.AdminUser{Username: username, PasswordHash: hash, IsActive: true}
	if err := db.Create(&staff).Error; err != nil {
		return nil, false, errors.Wrap(err, "create staff")
	}
	return &staff, true, nil
}

// EnsurePlanUnused refuses to let a plan go while subscriptions or payments
// still point at it.
func EnsurePlanUnused(db *gorm.DB, planID uint) error {
	var subs, payments int64
	if err := db.Model(&models.Subscription{}).Where("plan_id = ?", planID).Count(&subs).Error; err != nil {
		return errors.Wrap(err, "count subscriptions")
	}
	if err := db.Model(&models.Payment{}).Where("plan_id = ?", planID).Count(&payments).Error; err != nil {
		return errors.Wrap(err, "count payments")
	}
	if subs+payments > 0 {
		return ErrPlanInUse
	}
	return nil
}
