package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// voice serves conversation markup to the telephony provider. The first
// fetch for a call carries no transcript and drives the intro; later posts
// carry the captured utterance in SpeechResult.
func (h *HandlerSet) voice(ctx *fiber.Ctx) error {
	callID := ctx.FormValue("CallSid")
	if callID == "" {
		return fiber.NewError(http.StatusBadRequest, "missing CallSid")
	}
	utterance := ctx.FormValue("SpeechResult")

	doc := h.engine.HandleVoice(ctx.Context(), callID, utterance)
	body, err := doc.Render()
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/xml")
	return ctx.Status(http.StatusOK).SendString(body)
}

// callStatus handles the provider's completion notification. Acknowledged
// with success regardless of queue state.
func (h *HandlerSet) callStatus(ctx *fiber.Ctx) error {
	callID := ctx.FormValue("CallSid")
	if callID != "" {
		h.engine.EndSession(callID)
		h.orchestrator.OnCallCompleted(ctx.Context(), callID)
	} else {
		h.container.Logger.Warn("status callback without CallSid",
			zap.String("status", ctx.FormValue("CallStatus")))
	}

	return ctx.SendStatus(http.StatusOK)
}
