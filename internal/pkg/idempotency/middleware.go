package idempotency

import (
	"crypto/sha256"
	"encoding/hex"

	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
)

// Middleware replays stored responses for repeated Idempotency-Key values.
// Keys are scoped per user and route, so it has to run after the JWT
// middleware. Requests without the header pass straight through.
func Middleware(store *Store, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		clientKey := ctx.Get(HeaderKey)
		if clientKey == "" || store == nil {
			return ctx.Next()
		}
		if len(clientKey) > 255 {
			return apperror.BadRequest("Idempotency-Key too long")
		}

		userID, _ := ctx.Locals("user_id").(string)
		key := userID + "|" + ctx.Method() + "|" + ctx.Path() + "|" + clientKey
		hash := hashBody(ctx.Body())

		existing, reserved, err := store.Reserve(key, hash)
		if err != nil {
			log.Error("IDEMPOTENCY", "Failed to reserve key", map[string]interface{}{"error": err.Error()})
			return ctx.Next()
		}

		if !reserved {
			if existing.RequestHash != hash {
				return apperror.New(apperror.CodeConflict, "Idempotency-Key reused with a different request body")
			}
			if existing.State == StateInFlight {
				return apperror.Conflict("a request with this Idempotency-Key is still in progress")
			}
			ctx.Set(HeaderReplayed, "true")
			if existing.ContentType != "" {
				ctx.Set(fiber.HeaderContentType, existing.ContentType)
			}
			return ctx.Status(existing.StatusCode).Send(existing.Body)
		}

		if err := ctx.Next(); err != nil {
			store.Release(key)
			return err
		}

		status := ctx.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			store.Release(key)
			return nil
		}
		contentType := string(ctx.Response().Header.ContentType())
		if err := store.Complete(key, status, contentType, ctx.Response().Body()); err != nil {
			log.Warn("IDEMPOTENCY", "Failed to store response", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
