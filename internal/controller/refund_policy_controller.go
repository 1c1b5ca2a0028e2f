// FILE: internal/controller/refund_policy_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRefundPolicyController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Public(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Validate(ctx *fiber.Ctx) error
}

type refundPolicyController struct {
	service service.IRefundPolicyService
}

func NewRefundPolicyController(service service.IRefundPolicyService) IRefundPolicyController {
	return &refundPolicyController{service: service}
}

func (c *refundPolicyController) RegisterRoutes(r fiber.Router, mw Middleware) {
	r.Get("/refund-policies", c.Public)

	adminOnly := mw.Role(string(entity.UserRoleAdmin))
	h := r.Group("/admin/refund-policies")
	h.Get("/", mw.Auth, adminOnly, c.List)
	h.Post("/validate", mw.Auth, adminOnly, c.Validate)
	h.Post("/", mw.Auth, adminOnly, c.Create)
	h.Put("/:id", mw.Auth, adminOnly, c.Update)
	h.Delete("/:id", mw.Auth, adminOnly, c.Delete)
}

// Public lists the bands currently applied per role, falling back to the
// built-in defaults when the table has none.
func (c *refundPolicyController) Public(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Refund policies", c.service.Public(ctx.UserContext())))
}

func (c *refundPolicyController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund policies retrieved", res))
}

func (c *refundPolicyController) Create(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.RefundPolicyRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Create(ctx.UserContext(), adminId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Refund policy created", res))
}

func (c *refundPolicyController) Update(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	policyId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.RefundPolicyRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Update(ctx.UserContext(), adminId, policyId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund policy updated", res))
}

func (c *refundPolicyController) Delete(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	policyId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), adminId, policyId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Refund policy deleted", nil))
}

func (c *refundPolicyController) Validate(ctx *fiber.Ctx) error {
	var req dto.ValidateBandsRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bands checked", c.service.Validate(&req)))
}
