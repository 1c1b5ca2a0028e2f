// FILE: internal/controller/review_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Create(ctx *fiber.Ctx) error
	ForGuide(ctx *fiber.Ctx) error
}

type reviewController struct {
	service service.IReviewService
}

func NewReviewController(service service.IReviewService) IReviewController {
	return &reviewController{service: service}
}

func (c *reviewController) RegisterRoutes(r fiber.Router, mw Middleware) {
	r.Post("/trips/:id/reviews", mw.Auth, mw.Role(string(entity.UserRoleTraveler)), c.Create)
	r.Get("/guides/:id/reviews", c.ForGuide)
}

func (c *reviewController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CreateReviewRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Create(ctx.UserContext(), userId, tripId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Review submitted", res))
}

func (c *reviewController) ForGuide(ctx *fiber.Ctx) error {
	guideId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	page, limit := pageParams(ctx)
	res, err := c.service.ForGuide(ctx.UserContext(), guideId, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reviews retrieved", res))
}
