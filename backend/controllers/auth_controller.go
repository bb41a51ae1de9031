package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/services"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type tokenForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func bearer(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

// Token godoc
// @Summary Issue an access token
// @Description OAuth2 password flow; username is the account email
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /token/ [post]
func (ac *AuthController) Token(c *fiber.Ctx) error {
	var form tokenForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	token, _, err := ac.Auth.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		return err
	}
	return c.JSON(bearer(token))
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.RegisterInput true "Registration data"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /register/ [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	token, _, err := ac.Auth.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(bearer(token))
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginInput true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /login/ [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	token, _, err := ac.Auth.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return err
	}
	return c.JSON(bearer(token))
}
