package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/middleware"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

type ProgressController struct {
	Progress *services.ProgressService
}

func NewProgressController(progress *services.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

// UpdateProgress godoc
// @Summary Record progress in an enrolled course
// @Tags progress
// @Accept json
// @Produce json
// @Param input body services.UpdateProgressInput true "Progress values"
// @Success 200 {object} utils.StatusResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/update/ [post]
func (pc *ProgressController) UpdateProgress(c *fiber.Ctx) error {
	var input services.UpdateProgressInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if _, err := pc.Progress.Update(c.UserContext(), middleware.CurrentActor(c), input); err != nil {
		return err
	}
	return utils.OK(c)
}

// ViewProgress godoc
// @Summary Progress rows visible to the caller
// @Description Students see their own rows, instructors see rows for their courses
// @Tags progress
// @Produce json
// @Success 200 {array} services.ProgressView
// @Security ApiKeyAuth
// @Router /progress/view/ [get]
func (pc *ProgressController) ViewProgress(c *fiber.Ctx) error {
	rows, err := pc.Progress.View(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
