package services

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learning_platform/backend/models"
)

type UpdateProgressInput struct {
	CourseID         uint    `json:"course_id" validate:"required"`
	CompletedLessons int     `json:"completed_lessons" validate:"gte=0"`
	ProgressPercent  float64 `json:"progress_percent" validate:"gte=0,lte=100"`
}

type ProgressView struct {
	CourseID         uint    `json:"course_id"`
	CourseTitle      string  `json:"course_title"`
	UserID           uint    `json:"user_id"`
	CompletedLessons int     `json:"completed_lessons"`
	ProgressPercent  float64 `json:"progress_percent"`
}

type ProgressService struct {
	Deps
}

func NewProgressService(deps Deps) *ProgressService {
	return &ProgressService{Deps: deps}
}

// Update writes the caller's progress for a course they are enrolled in.
// Values are stored as given.
func (s *ProgressService) Update(ctx context.Context, actor Actor, in UpdateProgressInput) (*models.Progress, error) {
	db := s.DB.WithContext(ctx)

	var enrollment models.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", actor.UserID, in.CourseID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, errors.Wrap(err, "find enrollment")
	}

	progress := models.Progress{
		EnrollmentID:     enrollment.ID,
		CompletedLessons: in.CompletedLessons,
		ProgressPercent:  in.ProgressPercent,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed_lessons", "progress_percent"}),
	}).Create(&progress).Error
	if err != nil {
		return nil, errors.Wrap(err, "save progress")
	}

	if err := db.Where("enrollment_id = ?", enrollment.ID).First(&progress).Error; err != nil {
		return nil, errors.Wrap(err, "reload progress")
	}
	return &progress, nil
}

// View lists progress rows visible to the caller: their own as a student, or
// every enrollment in their courses as an instructor.
func (s *ProgressService) View(ctx context.Context, actor Actor) ([]ProgressView, error) {
	query := s.DB.WithContext(ctx).Table("progress").
		Select("courses.id AS course_id, courses.title AS course_title, enrollments.user_id AS user_id, " +
			"progress.completed_lessons AS completed_lessons, progress.progress_percent AS progress_percent").
		Joins("JOIN enrollments ON enrollments.id = progress.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id")

	switch {
	case actor.IsInstructor():
		query = query.Where("courses.instructor_id = ?", actor.UserID)
	case actor.IsStudent():
		query = query.Where("enrollments.user_id = ?", actor.UserID)
	default:
		return nil, ErrRoleRequired
	}

	rows := []ProgressView{}
	if err := query.Order("courses.id, enrollments.user_id").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "view progress")
	}
	return rows, nil
}
