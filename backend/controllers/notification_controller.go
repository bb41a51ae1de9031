package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/middleware"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

func (nc *NotificationController) ListNotifications(c *fiber.Ctx) error {
	notifications, err := nc.Notifications.List(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(notifications)
}

// MarkRead godoc
// @Summary Mark notifications as read
// @Description Either mark_all or a list of ids; ids of other users are ignored
// @Tags notifications
// @Accept json
// @Produce json
// @Param input body services.MarkReadInput true "Selection"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notifications/mark-read/ [post]
func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	var input services.MarkReadInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	updated, err := nc.Notifications.MarkRead(c.UserContext(), middleware.CurrentActor(c), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok", "updated": updated})
}

// LogActivity godoc
// @Summary Append an entry to the caller's activity trail
// @Tags activity
// @Accept json
// @Produce json
// @Param input body services.LogActivityInput true "Activity"
// @Success 201 {object} models.ActivityLog
// @Security ApiKeyAuth
// @Router /activity/ [post]
func (nc *NotificationController) LogActivity(c *fiber.Ctx) error {
	var input services.LogActivityInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	entry, err := nc.Notifications.LogActivity(c.UserContext(), middleware.CurrentActor(c), input)
	if err != nil {
		return err
	}
	return utils.Created(c, entry)
}
