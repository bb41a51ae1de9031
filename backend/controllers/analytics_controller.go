package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/middleware"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

type AnalyticsController struct {
	Analytics *services.AnalyticsService
}

func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics}
}

// GetOverview godoc
// @Summary Platform totals computed at query time
// @Tags analytics
// @Produce json
// @Success 200 {object} models.AnalyticsOverview
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /analytics/overview/ [get]
func (ac *AnalyticsController) GetOverview(c *fiber.Ctx) error {
	overview, err := ac.Analytics.Overview(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// GetMonthlyRevenue godoc
// @Summary Revenue per UTC calendar month
// @Tags analytics
// @Produce json
// @Param start_date query string false "Only payments on or after this date (YYYY-MM-DD)"
// @Success 200 {array} models.MonthlyRevenue
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /analytics/monthly-revenue/ [get]
func (ac *AnalyticsController) GetMonthlyRevenue(c *fiber.Ctx) error {
	var since time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return utils.BadRequest("Invalid start_date format. Use YYYY-MM-DD")
		}
		since = parsed
	}

	revenue, err := ac.Analytics.MonthlyRevenue(c.UserContext(), middleware.CurrentActor(c), since)
	if err != nil {
		return err
	}
	return c.JSON(revenue)
}
