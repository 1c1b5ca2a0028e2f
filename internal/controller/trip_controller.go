// FILE: internal/controller/trip_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITripController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	AddPhoto(ctx *fiber.Ctx) error
}

type tripController struct {
	service service.ITripService
}

func NewTripController(service service.ITripService) ITripController {
	return &tripController{service: service}
}

func (c *tripController) RegisterRoutes(r fiber.Router, mw Middleware) {
	traveler := mw.Role(string(entity.UserRoleTraveler))

	r.Post("/trips", mw.Auth, traveler, c.Create)
	r.Get("/trips", mw.Auth, c.List)
	r.Get("/trips/:id", mw.Auth, c.Get)
	r.Put("/trips/:id", mw.Auth, traveler, c.Update)
	r.Post("/trips/:id/close", mw.Auth, traveler, c.Close)
	r.Post("/trips/:id/photos", mw.Auth, traveler, c.AddPhoto)
}

func (c *tripController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateTripRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Trip created", res))
}

// List shows travelers their own trips and guides the open ones.
func (c *tripController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var query dto.TripListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.BadRequest("invalid query")
	}
	query.Page, query.Limit, _ = serverutils.NormalizePage(query.Page, query.Limit)

	trips, total, err := c.service.List(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), query)
	if err != nil {
		return err
	}
	return ctx.JSON(paged("Trips retrieved", trips, total, query.Page, query.Limit))
}

func (c *tripController) Get(ctx *fiber.Ctx) error {
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), tripId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trip retrieved", res))
}

func (c *tripController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTripRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Update(ctx.UserContext(), userId, tripId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trip updated", res))
}

func (c *tripController) Close(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.Close(ctx.UserContext(), userId, tripId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Trip closed", nil))
}

func (c *tripController) AddPhoto(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	file, err := ctx.FormFile("photo")
	if err != nil {
		return apperror.BadRequest("photo file is required")
	}
	photoURL, err := c.service.AddPhoto(ctx.UserContext(), userId, tripId, file)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Photo uploaded", fiber.Map{"url": photoURL}))
}
