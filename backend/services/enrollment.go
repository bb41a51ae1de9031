package services

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"learning_platform/backend/mail"
	"learning_platform/backend/models"
)

type EnrollInput struct {
	CourseID uint `json:"course_id" validate:"required"`
}

type EnrollResult struct {
	Enrollment models.Enrollment
	Created    bool
}

type EnrollmentService struct {
	Deps
}

func NewEnrollmentService(deps Deps) *EnrollmentService {
	return &EnrollmentService{Deps: deps}
}

// Enroll gets or creates the caller's enrollment in a published course.
// Progress, notifications and the activity entry are written only when the
// enrollment is new, in the same transaction. Emails go out after commit.
func (s *EnrollmentService) Enroll(ctx context.Context, actor Actor, courseID uint) (*EnrollResult, error) {
	if !actor.IsStudent() {
		return nil, ErrRoleRequired
	}
	db := s.DB.WithContext(ctx)

	var course models.Course
	err := db.Preload("Instructor").
		Where("id = ? AND status = ?", courseID, models.CourseStatusPublished).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, errors.Wrap(err, "find course")
	}

	var student models.User
	if err := db.First(&student, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find student")
	}

	result := &EnrollResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ?", actor.UserID, courseID).
			Limit(1).Find(&existing).Error; err != nil {
			return errors.Wrap(err, "find enrollment")
		}
		if len(existing) > 0 {
			result.Enrollment = existing[0]
			return nil
		}

		now := s.now()
		enrollment := models.Enrollment{UserID: actor.UserID, CourseID: courseID, EnrolledOn: now}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Progress{EnrollmentID: enrollment.ID}).Error; err != nil {
			return errors.Wrap(err, "create progress")
		}
		if err := appendNotification(tx, student.ID,
			fmt.Sprintf("You have enrolled in %s", course.Title)); err != nil {
			return errors.Wrap(err, "notify student")
		}
		if err := appendNotification(tx, course.InstructorID,
			fmt.Sprintf("%s enrolled in your course %s", student.Name, course.Title)); err != nil {
			return errors.Wrap(err, "notify instructor")
		}
		if err := appendActivity(tx, student.ID, "enroll",
			fmt.Sprintf("Enrolled in course %d (%s)", course.ID, course.Title), now); err != nil {
			return errors.Wrap(err, "record activity")
		}

		result.Enrollment = enrollment
		result.Created = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent enroll of the same pair
		var existing models.Enrollment
		if ferr := db.Where("user_id = ? AND course_id = ?", actor.UserID, courseID).
			First(&existing).Error; ferr != nil {
			return nil, errors.Wrap(ferr, "reload enrollment")
		}
		return &EnrollResult{Enrollment: existing}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "enroll")
	}

	if result.Created {
		s.sendEnrollmentEmails(&student, &course)
	}
	return result, nil
}

func (s *EnrollmentService) sendEnrollmentEmails(student *models.User, course *models.Course) {
	if s.Mailer == nil {
		return
	}
	messages := []*mail.Message{{
		ToName:  student.Name,
		ToEmail: student.Email,
		Subject: "Enrollment confirmed",
		Body:    fmt.Sprintf("Hi %s,\n\nYou are now enrolled in %s.", student.Name, course.Title),
	}}
	if course.Instructor != nil {
		messages = append(messages, &mail.Message{
			ToName:  course.Instructor.Name,
			ToEmail: course.Instructor.Email,
			Subject: "New enrollment",
			Body:    fmt.Sprintf("%s enrolled in your course %s.", student.Name, course.Title),
		})
	}
	s.Mailer.SendMessages(messages...)
}

// MyCourses lists the courses the caller is enrolled in, newest enrollment first.
func (s *EnrollmentService) MyCourses(ctx context.Context, actor Actor) ([]CourseSummary, error) {
	if !actor.IsStudent() {
		return nil, ErrRoleRequired
	}
	var enrollments []models.Enrollment
	err := s.DB.WithContext(ctx).
		Preload("Course").Preload("Course.Instructor").
		Where("user_id = ?", actor.UserID).
		Order("enrolled_on DESC, id DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list enrollments")
	}

	out := make([]CourseSummary, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course != nil {
			out = append(out, summarize(*e.Course))
		}
	}
	return out, nil
}
