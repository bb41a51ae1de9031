package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"learning_platform/backend/middleware"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

// AdminController serves the staff console: session login, the dashboard
// and CRUD over every model.
type AdminController struct {
	DB        *gorm.DB
	Sessions  *session.Store
	Admin     *services.AdminService
	Analytics *services.AnalyticsService
}

func NewAdminController(db *gorm.DB, sessions *session.Store, admin *services.AdminService, analytics *services.AnalyticsService) *AdminController {
	return &AdminController{DB: db, Sessions: sessions, Admin: admin, Analytics: analytics}
}

// Login godoc
// @Summary Staff login
// @Description Starts a console session stored in a cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.StaffLoginInput true "Staff credentials"
// @Success 200 {object} models.AdminUser
// @Failure 401 {object} utils.ErrorResponse
// @Router /admin/login [post]
func (ac *AdminController) Login(c *fiber.Ctx) error {
	var input services.StaffLoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	staff, err := ac.Admin.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return err
	}

	sess, err := ac.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.StaffSessionKey, staff.ID)
	if err := sess.Save(); err != nil {
		return err
	}
	return c.JSON(staff)
}

func (ac *AdminController) Logout(c *fiber.Ctx) error {
	sess, err := ac.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return utils.OK(c)
}

func (ac *AdminController) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentStaff(c))
}

// Dashboard godoc
// @Summary Console summary
// @Description Totals, top courses, revenue by month, recent activity and the latest snapshot
// @Tags admin
// @Produce json
// @Success 200 {object} models.Dashboard
// @Failure 401 {object} utils.ErrorResponse
// @Router /admin/dashboard [get]
func (ac *AdminController) Dashboard(c *fiber.Ctx) error {
	dashboard, err := ac.Analytics.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}

// RegisterResources mounts the CRUD routes and an index of resource names.
func (ac *AdminController) RegisterResources(router fiber.Router) {
	names := []string{}
	for _, r := range adminResources(ac.DB) {
		r.register(router)
		names = append(names, r.resourceName())
	}
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"resources": names})
	})
}
