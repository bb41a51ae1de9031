package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"learning_platform/backend/models"
	"learning_platform/backend/utils"
)

type CourseSummary struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	InstructorName string  `json:"instructor_name"`
	Status         string  `json:"status"`
	IsPremium      bool    `json:"is_premium"`
	Price          float64 `json:"price"`
}

type CourseDetail struct {
	CourseSummary
	Lessons []models.Lesson `json:"lessons"`
}

type CreateCourseInput struct {
	Title             string  `json:"title" validate:"required,notblank,max=200"`
	Description       string  `json:"description"`
	Status            string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsPremium         bool    `json:"is_premium"`
	Price             float64 `json:"price" validate:"gte=0"`
	CommissionPercent float64 `json:"commission_percent" validate:"gte=0,lte=100"`
}

type AddLessonInput struct {
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url" validate:"omitempty,url,max=500"`
	Order    *int   `json:"order" validate:"omitempty,gte=0"`
}

// CourseFilter narrows and orders the course listing. Sort is "newest"
// (default) or "popularity".
type CourseFilter struct {
	Search string
	Sort   string
}

type CatalogService struct {
	Deps
}

func NewCatalogService(deps Deps) *CatalogService {
	return &CatalogService{Deps: deps}
}

// HasValidSubscription reports whether userID holds a subscription that is
// active and not past its end date.
func (s *CatalogService) HasValidSubscription(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Subscription{}).
		Scopes(validSubscriptions(s.now())).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check subscription")
	}
	return count > 0, nil
}

func summarize(c models.Course) CourseSummary {
	s := CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		IsPremium:   c.IsPremium,
		Price:       c.Price,
	}
	if c.Instructor != nil {
		s.InstructorName = c.Instructor.Name
	}
	return s
}

// ListCourses returns published courses. Premium courses are left out unless
// the caller holds a valid subscription.
func (s *CatalogService) ListCourses(ctx context.Context, actor Actor, filter CourseFilter) ([]CourseSummary, error) {
	subscribed, err := s.HasValidSubscription(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	query := s.DB.WithContext(ctx).Preload("Instructor").
		Where("status = ?", models.CourseStatusPublished)
	if !subscribed {
		query = query.Where("is_premium = ?", false)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := utils.ContainsPattern(search)
		query = query.Where(utils.LikeContains("title")+" OR "+utils.LikeContains("description"), pattern, pattern)
	}

	var courses []models.Course
	switch filter.Sort {
	case "popularity":
		query = query.Order("(SELECT COUNT(*) FROM enrollments WHERE enrollments.course_id = courses.id) DESC, id")
	default:
		query = query.Order("created_at DESC, id DESC")
	}
	if err := query.Find(&courses).Error; err != nil {
		return nil, errors.Wrap(err, "list courses")
	}

	out := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, summarize(c))
	}
	return out, nil
}

// GetCourse returns a published course with its lessons in order. A premium
// course without a valid subscription is refused rather than hidden.
func (s *CatalogService) GetCourse(ctx context.Context, actor Actor, courseID uint) (*CourseDetail, error) {
	var course models.Course
	err := s.DB.WithContext(ctx).
		Preload("Instructor").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order(models.LessonOrdering) }).
		Where("id = ? AND status = ?", courseID, models.CourseStatusPublished).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, errors.Wrap(err, "find course")
	}

	if course.IsPremium {
		subscribed, err := s.HasValidSubscription(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !subscribed {
			return nil, ErrPremiumRequired
		}
	}

	lessons := course.Lessons
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	return &CourseDetail{CourseSummary: summarize(course), Lessons: lessons}, nil
}

func (s *CatalogService) CreateCourse(ctx context.Context, actor Actor, in CreateCourseInput) (*models.Course, error) {
	if !actor.IsInstructor() {
		return nil, ErrRoleRequired
	}
	status := in.Status
	if status == "" {
		status = models.CourseStatusDraft
	}
	course := models.Course{
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		InstructorID:      actor.UserID,
		Status:            status,
		IsPremium:         in.IsPremium,
		Price:             in.Price,
		CommissionPercent: in.CommissionPercent,
	}
	if err := s.DB.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, errors.Wrap(err, "create course")
	}
	return &course, nil
}

// AddLesson appends a lesson to a course owned by the caller. Without an
// explicit order the lesson goes after the existing ones.
func (s *CatalogService) AddLesson(ctx context.Context, actor Actor, courseID uint, in AddLessonInput) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return errors.Wrap(err, "find course")
		}
		if course.InstructorID != actor.UserID {
			return ErrNotCourseOwner
		}

		order := 0
		if in.Order != nil {
			order = *in.Order
		} else {
			var count int64
			if err := tx.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
				return errors.Wrap(err, "count lessons")
			}
			order = int(count) + 1
		}

		lesson = models.Lesson{
			CourseID:      courseID,
			Title:         strings.TrimSpace(in.Title),
			Content:       in.Content,
			VideoURL:      in.VideoURL,
			SequenceOrder: order,
		}
		return errors.Wrap(tx.Create(&lesson).Error, "create lesson")
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
