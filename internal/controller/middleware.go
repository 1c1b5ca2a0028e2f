package controller

import (
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Middleware bundles the handlers controllers mount on their groups.
type Middleware struct {
	Auth        fiber.Handler
	Idempotency fiber.Handler
}

// NewMiddleware builds the JWT guard. A nil idempotency handler is replaced
// with a pass-through.
func NewMiddleware(jwtSecret string, idempotency fiber.Handler) Middleware {
	if idempotency == nil {
		idempotency = func(ctx *fiber.Ctx) error { return ctx.Next() }
	}
	return Middleware{
		Auth:        serverutils.JwtMiddleware(jwtSecret),
		Idempotency: idempotency,
	}
}

func (m Middleware) Role(roles ...string) fiber.Handler {
	return serverutils.RequireRole(roles...)
}

// bind parses the JSON body into req and runs tag validation.
func bind(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func pageParams(ctx *fiber.Ctx) (int, int) {
	page, limit, _ := serverutils.NormalizePage(ctx.QueryInt("page", 1), ctx.QueryInt("limit", 10))
	return page, limit
}

func paged[T any](message string, items []T, total int64, page, limit int) serverutils.BaseResponse[serverutils.PagedData[T]] {
	if items == nil {
		items = []T{}
	}
	return serverutils.SuccessResponse(message, serverutils.PagedData[T]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
