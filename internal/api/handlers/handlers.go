package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/acme/voice-dialer/internal/app"
	"github.com/acme/voice-dialer/internal/assets"
	"github.com/acme/voice-dialer/internal/conversation"
	"github.com/acme/voice-dialer/internal/dispatch"
)

// HandlerSet bundles all HTTP handlers.
type HandlerSet struct {
	container    *app.Container
	orchestrator *dispatch.Orchestrator
	engine       *conversation.Engine
	store        assets.Store
}

// NewHandlerSet creates a new handler bundle.
func NewHandlerSet(container *app.Container) *HandlerSet {
	return &HandlerSet{
		container:    container,
		orchestrator: container.Orchestrator(),
		engine:       container.Engine(),
		store:        container.AssetStore(),
	}
}

// Register wires all routes onto the fiber app.
func (h *HandlerSet) Register(app *fiber.App) {
	app.Get("/healthz", h.health)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	v1.Post("/uploads", h.upload)

	app.Post("/voice", h.voice)
	app.Post("/voice/status", h.callStatus)
	app.Get("/audio/:name", h.audio)
}

// ErrorHandler provides centralized error responses.
func (h *HandlerSet) ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	if fiberErr, ok := err.(*fiber.Error); ok {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		h.container.Logger.Error("request failed", zap.Error(err))
	}

	return ctx.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

func (h *HandlerSet) health(ctx *fiber.Ctx) error {
	pending := h.orchestrator.Pending()
	callID, active := h.orchestrator.Active()

	body := fiber.Map{
		"status":  "ok",
		"pending": pending,
		"active":  active,
	}
	if active {
		body["call_id"] = callID
	}
	return ctx.Status(fiber.StatusOK).JSON(body)
}
