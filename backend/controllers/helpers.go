package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/utils"
)

// parseBody decodes the request body into dst and validates it.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return utils.BadRequest("Cannot parse JSON")
	}
	return utils.Validate.Struct(dst)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}
