package models

import "gorm.io/datatypes"

// AnalyticsRecord is a daily snapshot filled by an external batch job.
// This service only reads it.
type AnalyticsRecord struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Date                datatypes.Date `gorm:"uniqueIndex;not null" json:"date"`
	TotalUsers          int64          `gorm:"not null" json:"total_users"`
	ActiveSubscriptions int64          `gorm:"not null" json:"active_subscriptions"`
	Revenue             float64        `gorm:"not null" json:"revenue"`
	MostPopularCourse   string         `gorm:"size:200" json:"most_popular_course"`
}

type AnalyticsOverview struct {
	TotalUsers          int64   `json:"total_users"`
	ActiveSubscriptions int64   `json:"active_subscriptions"`
	TotalRevenue        float64 `json:"total_revenue"`
	MostPopularCourse   *string `json:"most_popular_course"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

type CourseEnrollmentCount struct {
	CourseID    uint   `json:"course_id"`
	Title       string `json:"title"`
	Enrollments int64  `gorm:"column:enroll_count" json:"enrollments"`
}

type DailyActivity struct {
	Day     string `json:"day"` // YYYY-MM-DD
	Actions int64  `json:"actions"`
}

type Dashboard struct {
	TotalUsers          int64                   `json:"total_users"`
	TotalCourses        int64                   `json:"total_courses"`
	TotalEnrollments    int64                   `json:"total_enrollments"`
	ActiveSubscriptions int64                   `json:"active_subscriptions"`
	TotalRevenue        float64                 `json:"total_revenue"`
	TopCourses          []CourseEnrollmentCount `json:"top_courses"`
	RevenueByMonth      []MonthlyRevenue        `json:"revenue_by_month"`
	ActivityByDay       []DailyActivity         `json:"activity_by_day"`
	RecentNotifications []Notification          `json:"recent_notifications"`
	LatestSnapshot      *AnalyticsRecord        `json:"latest_snapshot"`
}
