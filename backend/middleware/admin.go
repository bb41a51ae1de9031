package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"learning_platform/backend/models"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

const (
	StaffSessionKey = "admin_id"
	staffKey        = "staff"
)

// AdminMiddleware admits requests whose session belongs to an active staff
// account. The account is reloaded on every request so deactivation takes
// effect immediately.
func AdminMiddleware(store *session.Store, admin *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		id, ok := sess.Get(StaffSessionKey).(uint)
		if !ok {
			return utils.Error(c, fiber.StatusUnauthorized, "Authentication required")
		}

		staff, err := admin.ActiveStaff(c.UserContext(), id)
		if err != nil {
			if destroyErr := sess.Destroy(); destroyErr != nil {
				return destroyErr
			}
			return utils.Error(c, fiber.StatusUnauthorized, "Authentication required")
		}

		c.Locals(staffKey, staff)
		return c.Next()
	}
}

// CurrentStaff returns the staff account stored by AdminMiddleware.
func CurrentStaff(c *fiber.Ctx) *models.AdminUser {
	staff, _ := c.Locals(staffKey).(*models.AdminUser)
	return staff
}
