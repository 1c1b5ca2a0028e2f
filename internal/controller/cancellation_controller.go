// FILE: internal/controller/cancellation_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICancellationController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Quote(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
}

type cancellationController struct {
	service service.ICancellationService
}

func NewCancellationController(service service.ICancellationService) ICancellationController {
	return &cancellationController{service: service}
}

func (c *cancellationController) RegisterRoutes(r fiber.Router, mw Middleware) {
	h := r.Group("/cancellations", mw.Auth)
	participant := mw.Role(string(entity.UserRoleTraveler), string(entity.UserRoleGuide))

	h.Post("/quote", participant, c.Quote)
	h.Post("/", participant, mw.Idempotency, c.Create)
	h.Get("/", c.List)
	h.Get("/:id", c.Get)
}

// Quote previews the refund for a cancellation without saving anything.
func (c *cancellationController) Quote(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CancellationQuoteRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Quote(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund quote calculated", res))
}

func (c *cancellationController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateCancellationRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Cancellation request submitted", res))
}

func (c *cancellationController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	page, limit := pageParams(ctx)
	items, total, err := c.service.List(ctx.UserContext(), userId, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(paged("Cancellations retrieved", items, total, page, limit))
}

func (c *cancellationController) Get(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cancellation retrieved", res))
}
