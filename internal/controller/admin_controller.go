// FILE: internal/controller/admin_controller.go
package controller

import (
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router, mw Middleware)
	Login(ctx *fiber.Ctx) error
	GetDashboardStats(ctx *fiber.Ctx) error
	GetAllUsers(ctx *fiber.Ctx) error
	GetUserDetail(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error

	// Cancellation Management
	GetCancellations(ctx *fiber.Ctx) error
	ApproveCancellation(ctx *fiber.Ctx) error
	RejectCancellation(ctx *fiber.Ctx) error
}

type adminController struct {
	service     service.IAdminService
	authService service.IAuthService
}

func NewAdminController(service service.IAdminService, authService service.IAuthService) IAdminController {
	return &adminController{
		service:     service,
		authService: authService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router, mw Middleware) {
	h := r.Group("/admin")
	h.Post("/login", c.Login)

	// Guards are per route: other controllers mount their own /admin paths.
	adminOnly := mw.Role(string(entity.UserRoleAdmin))
	h.Get("/dashboard", mw.Auth, adminOnly, c.GetDashboardStats)

	h.Get("/users", mw.Auth, adminOnly, c.GetAllUsers)
	h.Get("/users/:id", mw.Auth, adminOnly, c.GetUserDetail)
	h.Put("/users/:id/status", mw.Auth, adminOnly, c.UpdateUserStatus)

	h.Get("/logs", mw.Auth, adminOnly, c.GetLogs)
	h.Get("/logs/:id", mw.Auth, adminOnly, c.GetLogDetail)

	h.Get("/cancellations", mw.Auth, adminOnly, c.GetCancellations)
	h.Post("/cancellations/:id/approve", mw.Auth, adminOnly, mw.Idempotency, c.ApproveCancellation)
	h.Post("/cancellations/:id/reject", mw.Auth, adminOnly, mw.Idempotency, c.RejectCancellation)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.authService.LoginAdmin(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin login successful", res))
}

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	stats, err := c.service.GetDashboardStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", stats))
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	page, limit := pageParams(ctx)
	users, total, err := c.service.GetAllUsers(ctx.UserContext(), page, limit, ctx.Query("q"), ctx.Query("role"))
	if err != nil {
		return err
	}
	return ctx.JSON(paged("User list", users, total, page, limit))
}

func (c *adminController) GetUserDetail(ctx *fiber.Ctx) error {
	userId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	user, err := c.service.GetUserDetail(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User detail", user))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	userId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AdminUpdateUserStatusRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	if err := c.service.UpdateUserStatus(ctx.UserContext(), adminId, userId, req.Status); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User status updated", nil))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, limit := pageParams(ctx)
	logs, err := c.service.GetSystemLogs(ctx.UserContext(), page, limit, ctx.Query("level"), ctx.Query("module"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	// Log IDs are line hashes, not UUIDs.
	l, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}

func (c *adminController) GetCancellations(ctx *fiber.Ctx) error {
	page, limit := pageParams(ctx)
	items, total, err := c.service.GetCancellations(ctx.UserContext(), page, limit, ctx.Query("status"))
	if err != nil {
		return err
	}
	return ctx.JSON(paged("Cancellation requests", items, total, page, limit))
}

func (c *adminController) ApproveCancellation(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	cancellationId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AdminApproveCancellationRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.ApproveCancellation(ctx.UserContext(), adminId, cancellationId, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cancellation approved", res))
}

func (c *adminController) RejectCancellation(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	cancellationId, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AdminRejectCancellationRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.RejectCancellation(ctx.UserContext(), adminId, cancellationId, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cancellation rejected", res))
}
