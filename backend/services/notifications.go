package services

import (
	"context"

	"github.com/pkg/errors"

	"learning_platform/backend/models"
)

type MarkReadInput struct {
	MarkAll bool   `json:"mark_all"`
	IDs     []uint `json:"ids"`
}

type LogActivityInput struct {
	ActionType string `json:"action_type" validate:"required,notblank,max=50"`
	Details    string `json:"details"`
}

type NotificationService struct {
	Deps
}

func NewNotificationService(deps Deps) *NotificationService {
	return &NotificationService{Deps: deps}
}

func (s *NotificationService) List(ctx context.Context, actor Actor) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", actor.UserID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return notifications, nil
}

// MarkRead flags the caller's notifications as read, either all of them or
// the listed ids. Ids owned by someone else are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, in MarkReadInput) (int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false)
	switch {
	case in.MarkAll:
	case len(in.IDs) > 0:
		query = query.Where("id IN ?", in.IDs)
	default:
		return 0, ErrNothingToMark
	}

	res := query.Update("is_read", true)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "mark notifications read")
	}
	return res.RowsAffected, nil
}

// LogActivity appends a caller-described entry to the activity trail.
func (s *NotificationService) LogActivity(ctx context.Context, actor Actor, in LogActivityInput) (*models.ActivityLog, error) {
	entry := models.ActivityLog{
		UserID:     actor.UserID,
		ActionType: in.ActionType,
		Details:    in.Details,
		Timestamp:  s.now(),
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, errors.Wrap(err, "record activity")
	}
	return &entry, nil
}
