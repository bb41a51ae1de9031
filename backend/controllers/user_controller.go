package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/middleware"
	"learning_platform/backend/services"
)

type UserController struct {
	Auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{Auth: auth}
}

// GetProfile godoc
// @Summary Get user profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user, err := uc.Auth.Profile(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Changes the display name and, given the old password, the password
// @Tags users
// @Accept json
// @Produce json
// @Param input body services.UpdateProfileInput true "Profile update data"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var input services.UpdateProfileInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	user, err := uc.Auth.UpdateProfile(c.UserContext(), middleware.CurrentActor(c), input)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
