package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/daeho-materials/daeho-web/core/config"
	"github.com/daeho-materials/daeho-web/infrastructure/valkey"
	"github.com/daeho-materials/daeho-web/pkg/httpcache"
	"github.com/daeho-materials/daeho-web/pkg/utils"
)

type Health struct {
	Valkey *valkey.Client
}

// InitRestHealth registers the health check; the limiter is attached to
// the route itself so it gates nothing else.
func InitRestHealth(app fiber.Router, client *valkey.Client, limit fiber.Handler) Health {
	rest := Health{Valkey: client}
	app.Get("/health", limit, rest.Check)
	return rest
}

func (controller *Health) Check(c *fiber.Ctx) error {
	valkeyUp := controller.Valkey != nil && controller.Valkey.IsConnected()

	status := 200
	code := "SUCCESS"
	if !valkeyUp {
		status = 503
		code = "DEGRADED"
	}

	httpcache.ApplyNoStore(c)
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    code,
		Message: "Health check",
		Results: fiber.Map{
			"version": config.Global.App.Version,
			"valkey":  valkeyUp,
		},
	})
}
