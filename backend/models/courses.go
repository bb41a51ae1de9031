package models

import "time"

const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

type Course struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Description       string    `gorm:"type:text" json:"description"`
	InstructorID      uint      `gorm:"index;not null" json:"instructor_id" validate:"required"`
	Instructor        *User     `gorm:"constraint:OnDelete:CASCADE" json:"instructor,omitempty"`
	Status            string    `gorm:"size:20;not null;default:draft;index" json:"status" validate:"required,oneof=draft published archived"`
	IsPremium         bool      `gorm:"not null" json:"is_premium"`
	Price             float64   `gorm:"not null" json:"price" validate:"gte=0"`
	CommissionPercent float64   `gorm:"not null" json:"commission_percent" validate:"gte=0,lte=100"`
	CreatedAt         time.Time `json:"created_at"`
	Lessons           []Lesson  `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// Lesson order within a course is (SequenceOrder, ID).
type Lesson struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CourseID      uint   `gorm:"index;not null" json:"course_id" validate:"required"`
	Title         string `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Content       string `gorm:"type:text" json:"content"`
	VideoURL      string `gorm:"size:500" json:"video_url"`
	SequenceOrder int    `gorm:"not null;default:0" json:"order"`
}

const LessonOrdering = "sequence_order, id"

type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id" validate:"required"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id" validate:"required"`
	Course     *Course   `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	EnrolledOn time.Time `gorm:"not null" json:"enrolled_on"`
}

// Progress percent is caller-supplied and never checked against the lesson count.
type Progress struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	EnrollmentID     uint        `gorm:"uniqueIndex;not null" json:"enrollment_id" validate:"required"`
	Enrollment       *Enrollment `gorm:"constraint:OnDelete:CASCADE" json:"enrollment,omitempty"`
	CompletedLessons int         `gorm:"not null" json:"completed_lessons" validate:"gte=0"`
	ProgressPercent  float64     `gorm:"not null" json:"progress_percent" validate:"gte=0,lte=100"`
}

func (Progress) TableName() string { return "progress" }
