// FILE: internal/controller/user_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	UploadAvatar(ctx *fiber.Ctx) error
	GetPublicProfile(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router, mw Middleware) {
	h := r.Group("/users", mw.Auth)
	h.Get("/me", c.GetProfile)
	h.Put("/me", c.UpdateProfile)
	h.Post("/me/avatar", c.UploadAvatar)
	h.Get("/:id", c.GetPublicProfile)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetProfile(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile retrieved", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateProfile(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) UploadAvatar(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	file, err := ctx.FormFile("avatar")
	if err != nil {
		return apperror.BadRequest("avatar file is required")
	}
	avatarURL, err := c.service.UploadAvatar(ctx.UserContext(), userId, file)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Avatar uploaded", fiber.Map{"avatar_url": avatarURL}))
}

func (c *userController) GetPublicProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.GetPublicProfile(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile retrieved", res))
}
