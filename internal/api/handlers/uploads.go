package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/acme/voice-dialer/internal/ingest"
)

type uploadResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

func (h *HandlerSet) upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "unreadable upload")
	}
	defer file.Close()

	result, err := ingest.ReadDestinations(file, h.container.Normalizer())
	if err != nil {
		return translateError(err)
	}

	h.container.Logger.Info("upload ingested",
		zap.Int("accepted", result.Accepted),
		zap.Int("rejected", result.Rejected))

	h.orchestrator.Enqueue(ctx.Context(), result.Destinations)

	return ctx.Status(http.StatusAccepted).JSON(uploadResponse{
		Accepted: result.Accepted,
		Rejected: result.Rejected,
		Pending:  h.orchestrator.Pending(),
	})
}
