package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

func (h *HandlerSet) audio(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	data, contentType, err := h.store.Get(ctx.Context(), name)
	if err != nil {
		return translateError(err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(http.StatusOK).Send(data)
}
