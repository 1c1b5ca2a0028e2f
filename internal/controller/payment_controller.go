// FILE: internal/controller/payment_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	logger  logger.ILogger
}

func NewPaymentController(service service.IPaymentService, log logger.ILogger) IPaymentController {
	return &paymentController{service: service, logger: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router, mw Middleware) {
	h := r.Group("/payments")
	h.Post("/midtrans/notification", c.Webhook)

	h.Post("/checkout", mw.Auth, mw.Role(string(entity.UserRoleTraveler)), mw.Idempotency, c.Checkout)
	h.Get("/", mw.Auth, c.List)
	h.Get("/:id", mw.Auth, c.Get)
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Checkout(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

// Webhook answers non-2xx on failure so Midtrans retries the notification.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransNotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.BadRequest("invalid notification body")
	}

	c.logger.Info("PAYMENT", "Webhook received", map[string]interface{}{
		"orderId": req.OrderId,
		"status":  req.TransactionStatus,
	})

	if err := c.service.HandleNotification(ctx.UserContext(), &req); err != nil {
		c.logger.Warn("PAYMENT", "Webhook handling failed", map[string]interface{}{
			"orderId": req.OrderId,
			"error":   err.Error(),
		})
		return err
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *paymentController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	page, limit := pageParams(ctx)
	payments, total, err := c.service.List(ctx.UserContext(), userId, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(paged("Payments retrieved", payments, total, page, limit))
}

func (c *paymentController) Get(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	paymentId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), paymentId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment retrieved", res))
}
