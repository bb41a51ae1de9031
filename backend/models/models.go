package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AdminUser{},
		&Course{},
		&Lesson{},
		&Enrollment{},
		&Progress{},
		&Plan{},
		&Subscription{},
		&Payment{},
		&Notification{},
		&ActivityLog{},
		&AnalyticsRecord{},
	}
}
