// FILE: internal/controller/message_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Send(ctx *fiber.Ctx) error
	Conversation(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
}

type messageController struct {
	service service.IMessageService
}

func NewMessageController(service service.IMessageService) IMessageController {
	return &messageController{service: service}
}

func (c *messageController) RegisterRoutes(r fiber.Router, mw Middleware) {
	r.Post("/trips/:id/messages", mw.Auth, c.Send)
	r.Get("/trips/:id/messages", mw.Auth, c.Conversation)
	r.Post("/messages/:id/read", mw.Auth, c.MarkRead)
}

func (c *messageController) Send(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Send(ctx.UserContext(), userId, tripId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message sent", res))
}

// Conversation returns the thread with the user given in ?with=, newest first.
func (c *messageController) Conversation(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tripId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	withId, err := uuid.Parse(ctx.Query("with"))
	if err != nil {
		return apperror.BadRequest("query parameter 'with' must be a user id")
	}
	page, limit := pageParams(ctx)
	messages, total, err := c.service.Conversation(ctx.UserContext(), userId, tripId, withId, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(paged("Messages retrieved", messages, total, page, limit))
}

func (c *messageController) MarkRead(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	messageId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.MarkRead(ctx.UserContext(), userId, messageId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Message marked as read", nil))
}
