// FILE: internal/controller/offer_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOfferController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Create(ctx *fiber.Ctx) error
	ListForTrip(ctx *fiber.Ctx) error
	Accept(ctx *fiber.Ctx) error
	Withdraw(ctx *fiber.Ctx) error
}

type offerController struct {
	service service.IOfferService
}

func NewOfferController(service service.IOfferService) IOfferController {
	return &offerController{service: service}
}

func (c *offerController) RegisterRoutes(r fiber.Router, mw Middleware) {
	guide := mw.Role(string(entity.UserRoleGuide))
	traveler := mw.Role(string(entity.UserRoleTraveler))

	r.Post("/trips/:id/offers", mw.Auth, guide, c.Create)
	r.Get("/trips/:id/offers", mw.Auth, c.ListForTrip)
	r.Post("/offers/:id/accept", mw.Auth, traveler, mw.Idempotency, c.Accept)
	r.Post("/offers/:id/withdraw", mw.Auth, guide, c.Withdraw)
}

func (c *offerController) Create(ctx *fiber.Ctx) error {
	guideId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CreateOfferRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Create(ctx.UserContext(), guideId, tripId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Offer submitted", res))
}

func (c *offerController) ListForTrip(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.ListForTrip(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), tripId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Offers retrieved", res))
}

func (c *offerController) Accept(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	offerId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Accept(ctx.UserContext(), userId, offerId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Offer accepted", res))
}

func (c *offerController) Withdraw(ctx *fiber.Ctx) error {
	guideId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	offerId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.Withdraw(ctx.UserContext(), guideId, offerId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Offer withdrawn", nil))
}
