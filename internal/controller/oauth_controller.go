// FILE: internal/controller/oauth_controller.go
package controller

import (
	"net/url"

	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	clientURL string
	logger    logger.ILogger
}

func NewOAuthController(service service.IOAuthService, clientURL string, log logger.ILogger) IOAuthController {
	return &oauthController{service: service, clientURL: clientURL, logger: log}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/oauth")
	h.Get("/:provider/login", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

// Login redirects to the provider consent page. ?role=guide makes a new
// account a guide; anything else registers a traveler.
func (c *oauthController) Login(ctx *fiber.Ctx) error {
	target, err := c.service.GetLoginURL(ctx.Params("provider"), ctx.Query("role"))
	if err != nil {
		return err
	}
	return ctx.Redirect(target, fiber.StatusTemporaryRedirect)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	if code == "" {
		return ctx.Redirect(c.clientURL+"/login?error=missing_code", fiber.StatusTemporaryRedirect)
	}

	res, err := c.service.HandleCallback(ctx.UserContext(), provider, ctx.Query("state"), code)
	if err != nil {
		c.logger.Warn("OAUTH", "Callback failed", map[string]interface{}{
			"provider": provider,
			"error":    err.Error(),
		})
		return ctx.Redirect(c.clientURL+"/login?error=oauth_failed", fiber.StatusTemporaryRedirect)
	}

	c.logger.Info("OAUTH", "User authenticated", map[string]interface{}{
		"provider": provider,
		"userId":   res.User.Id.String(),
	})
	// Fragment keeps the token out of server access logs.
	return ctx.Redirect(c.clientURL+"/oauth/complete#token="+url.QueryEscape(res.Token), fiber.StatusTemporaryRedirect)
}
