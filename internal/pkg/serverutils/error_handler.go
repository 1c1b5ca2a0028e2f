package serverutils

import (
	"errors"
	"strconv"

	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/pkg/refund"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders any error returned by a handler as the standard
// envelope. Use it as fiber.Config.ErrorHandler.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, body := render(err)
		if status >= fiber.StatusInternalServerError && log != nil {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": status,
				"error":  err.Error(),
			})
		}
		return ctx.Status(status).JSON(body)
	}
}

// ErrorHandlerMiddleware handles errors inside the middleware chain so that
// later middleware (cors, tracing) still sees a rendered response.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := ErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}

func render(err error) (int, BaseResponse[any]) {
	if appErr, ok := apperror.As(err); ok {
		status := appErr.HTTPStatus()
		return status, BaseResponse[any]{
			Success:   false,
			Code:      status,
			ErrorCode: string(appErr.Code),
			Message:   appErr.Message,
			Errors:    appErr.Fields,
		}
	}

	var vErr *refund.ValidationError
	if errors.As(err, &vErr) {
		return fiber.StatusBadRequest, BaseResponse[any]{
			Success:   false,
			Code:      fiber.StatusBadRequest,
			ErrorCode: string(apperror.CodeValidation),
			Message:   vErr.Error(),
			Errors:    map[string]string{vErr.Field: vErr.Reason},
		}
	}

	var bandErr *refund.BandSetError
	if errors.As(err, &bandErr) {
		fields := make(map[string]string, len(bandErr.Problems))
		for i, p := range bandErr.Problems {
			fields[bandKey(i)] = p
		}
		return fiber.StatusBadRequest, BaseResponse[any]{
			Success:   false,
			Code:      fiber.StatusBadRequest,
			ErrorCode: string(apperror.CodeValidation),
			Message:   "invalid refund policy bands",
			Errors:    fields,
		}
	}

	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		return fErr.Code, ErrorResponse(fErr.Code, fErr.Message)
	}

	return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "internal server error")
}

func bandKey(i int) string {
	return "bands[" + strconv.Itoa(i) + "]"
}
