package models

import "time"

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name" validate:"required,max=120"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email" validate:"required,email,max=254"`
	Role         string    `gorm:"size:20;not null;default:student" json:"role" validate:"required,oneof=student instructor"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) IsInstructor() bool { return u.Role == RoleInstructor }

// AdminUser is a staff account for the admin console. It is unrelated to User.
type AdminUser struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message" validate:"required"`
	IsRead    bool      `gorm:"not null;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ActionType string    `gorm:"size:50;not null" json:"action_type" validate:"required,max=50"`
	Details    string    `gorm:"type:text" json:"details"`
	Timestamp  time.Time `gorm:"index;not null" json:"timestamp"`
}
