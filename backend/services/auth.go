package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"learning_platform/backend/models"
	"learning_platform/backend/utils"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student instructor"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Name        string `json:"name" validate:"omitempty,notblank,max=120"`
	OldPassword string `json:"old_password" validate:"required_with=NewPassword"`
	NewPassword string `json:"new_password" validate:"omitempty,min=6"`
}

type AuthService struct {
	Deps
}

func NewAuthService(deps Deps) *AuthService {
	return &AuthService{Deps: deps}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	db := s.DB.WithContext(ctx)
	email := normalizeEmail(in.Email)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", nil, errors.Wrap(err, "check email")
	}
	if count > 0 {
		return "", nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", nil, errors.Wrap(err, "hash password")
	}
	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Role:         in.Role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, errors.Wrap(err, "create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, s.Config)
	if err != nil {
		return "", nil, errors.Wrap(err, "issue token")
	}
	return token, &user, nil
}

// Login checks credentials and issues a token. Inactive accounts are refused
// even with the right password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, errors.Wrap(err, "find user")
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, s.Config)
	if err != nil {
		return "", nil, errors.Wrap(err, "issue token")
	}

	if err := appendActivity(db, user.ID, "login", "", s.now()); err != nil {
		s.Logger.Warn("login activity not recorded", "user_id", user.ID, "error", err)
	}
	return token, &user, nil
}

func (s *AuthService) Profile(ctx context.Context, actor Actor) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor Actor, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.NewPassword != "" {
		if !utils.CheckPassword(in.OldPassword, user.PasswordHash) {
			return nil, ErrWrongPassword
		}
		if user.PasswordHash, err = utils.HashPassword(in.NewPassword); err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
	}

	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	return user, nil
}
