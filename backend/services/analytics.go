package services

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"learning_platform/backend/models"
)

type AnalyticsService struct {
	Deps
}

func NewAnalyticsService(deps Deps) *AnalyticsService {
	return &AnalyticsService{Deps: deps}
}

// Overview computes platform totals at query time.
func (s *AnalyticsService) Overview(ctx context.Context, actor Actor) (*models.AnalyticsOverview, error) {
	if !actor.IsInstructor() {
		return nil, ErrRoleRequired
	}
	db := s.DB.WithContext(ctx)
	out := &models.AnalyticsOverview{}

	if err := db.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, errors.Wrap(err, "count users")
	}
	var err error
	if out.ActiveSubscriptions, err = s.activeSubscriptions(db); err != nil {
		return nil, err
	}
	if out.TotalRevenue, err = totalRevenue(db); err != nil {
		return nil, err
	}

	top, err := topCourses(db.Joins("JOIN enrollments ON enrollments.course_id = courses.id"), 1)
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		out.MostPopularCourse = &top[0].Title
	}
	return out, nil
}

// MonthlyRevenue sums payments per UTC calendar month, oldest month first.
// A zero since covers every payment.
func (s *AnalyticsService) MonthlyRevenue(ctx context.Context, actor Actor, since time.Time) ([]models.MonthlyRevenue, error) {
	if !actor.IsInstructor() {
		return nil, ErrRoleRequired
	}
	payments, err := s.payments(s.DB.WithContext(ctx), since)
	if err != nil {
		return nil, err
	}
	return RevenueByMonth(payments), nil
}

// Dashboard gathers the staff console summary.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	db := s.DB.WithContext(ctx)
	out := &models.Dashboard{}

	if err := db.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, errors.Wrap(err, "count users")
	}
	if err := db.Model(&models.Course{}).Count(&out.TotalCourses).Error; err != nil {
		return nil, errors.Wrap(err, "count courses")
	}
	if err := db.Model(&models.Enrollment{}).Count(&out.TotalEnrollments).Error; err != nil {
		return nil, errors.Wrap(err, "count enrollments")
	}

	var err error
	if out.ActiveSubscriptions, err = s.activeSubscriptions(db); err != nil {
		return nil, err
	}
	if out.TotalRevenue, err = totalRevenue(db); err != nil {
		return nil, err
	}
	if out.TopCourses, err = topCourses(db.Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id"), 5); err != nil {
		return nil, err
	}

	payments, err := s.payments(db, time.Time{})
	if err != nil {
		return nil, err
	}
	out.RevenueByMonth = RevenueByMonth(payments)

	since := s.now().AddDate(0, 0, -30)
	var stamps []time.Time
	if err := db.Model(&models.ActivityLog{}).Where("timestamp >= ?", since).
		Pluck("timestamp", &stamps).Error; err != nil {
		return nil, errors.Wrap(err, "load activity")
	}
	out.ActivityByDay = ActivityByDay(stamps)

	out.RecentNotifications = []models.Notification{}
	if err := db.Preload("User").Order("created_at DESC, id DESC").Limit(10).
		Find(&out.RecentNotifications).Error; err != nil {
		return nil, errors.Wrap(err, "recent notifications")
	}

	var snapshots []models.AnalyticsRecord
	if err := db.Order("date DESC").Limit(1).Find(&snapshots).Error; err != nil {
		return nil, errors.Wrap(err, "latest snapshot")
	}
	if len(snapshots) > 0 {
		out.LatestSnapshot = &snapshots[0]
	}
	return out, nil
}

func (s *AnalyticsService) activeSubscriptions(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Subscription{}).Scopes(validSubscriptions(s.now())).Count(&n).Error
	return n, errors.Wrap(err, "count active subscriptions")
}

func totalRevenue(db *gorm.DB) (float64, error) {
	var total float64
	err := db.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, errors.Wrap(err, "sum revenue")
}

// topCourses ranks courses by enrollment count over the join given in db.
func topCourses(db *gorm.DB, limit int) ([]models.CourseEnrollmentCount, error) {
	rows := []models.CourseEnrollmentCount{}
	err := db.Model(&models.Course{}).
		Select("courses.id AS course_id, courses.title AS title, COUNT(enrollments.id) AS enroll_count").
		Group("courses.id, courses.title").
		Order("enroll_count DESC, courses.id").
		Limit(limit).
		Scan(&rows).Error
	return rows, errors.Wrap(err, "rank courses")
}

func (s *AnalyticsService) payments(db *gorm.DB, since time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	query := db.Select("amount", "payment_date")
	if !since.IsZero() {
		query = query.Where("payment_date >= ?", since)
	}
	err := query.Find(&payments).Error
	return payments, errors.Wrap(err, "load payments")
}

// RevenueByMonth buckets payment amounts by the UTC month of their date.
func RevenueByMonth(payments []models.Payment) []models.MonthlyRevenue {
	sums := map[string]float64{}
	for _, p := range payments {
		sums[p.PaymentDate.UTC().Format("2006-01")] += p.Amount
	}
	out := make([]models.MonthlyRevenue, 0, len(sums))
	for month, revenue := range sums {
		out = append(out, models.MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ActivityByDay counts timestamps per UTC day, oldest day first.
func ActivityByDay(stamps []time.Time) []models.DailyActivity {
	counts := map[string]int64{}
	for _, ts := range stamps {
		counts[ts.UTC().Format("2006-01-02")]++
	}
	out := make([]models.DailyActivity, 0, len(counts))
	for day, n := range counts {
		out = append(out, models.DailyActivity{Day: day, Actions: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
