package controller

import (
	"tuddy-chat-be/internal/pkg/serverutils"
	"tuddy-chat-be/pkg/generator"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	GeneratorHealth(ctx *fiber.Ctx) error
}

type healthController struct {
	generatorClient generator.IClient
}

func NewHealthController(generatorClient generator.IClient) IHealthController {
	return &healthController{
		generatorClient: generatorClient,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/health/generator", c.GeneratorHealth)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
}

// GeneratorHealth probes the upstream so callers can tell a broken generator
// apart from a broken backend.
func (c *healthController) GeneratorHealth(ctx *fiber.Ctx) error {
	if err := c.generatorClient.Health(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "generator unreachable"))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
}
