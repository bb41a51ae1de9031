package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/middleware"
	"learning_platform/backend/services"
)

type SubscriptionController struct {
	Billing *services.BillingService
}

func NewSubscriptionController(billing *services.BillingService) *SubscriptionController {
	return &SubscriptionController{Billing: billing}
}

func (sc *SubscriptionController) ListPlans(c *fiber.Ctx) error {
	plans, err := sc.Billing.Plans(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(plans)
}

// Subscribe godoc
// @Summary Subscribe the caller to a plan
// @Description Creates the subscription and its payment in one transaction
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param input body services.SubscribeInput true "Plan"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /subscribe/ [post]
func (sc *SubscriptionController) Subscribe(c *fiber.Ctx) error {
	var input services.SubscribeInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	sub, err := sc.Billing.Subscribe(c.UserContext(), middleware.CurrentActor(c), input.PlanID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":          "ok",
		"subscription_id": sub.ID,
		"end_date":        sub.EndDate,
	})
}

func (sc *SubscriptionController) ListPayments(c *fiber.Ctx) error {
	payments, err := sc.Billing.Payments(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

func (sc *SubscriptionController) ListSubscriptions(c *fiber.Ctx) error {
	subs, err := sc.Billing.Subscriptions(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(subs)
}
