package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quantiva/dashboard/internal/api/metrics"
	"github.com/quantiva/dashboard/internal/core/domain"
	"github.com/quantiva/dashboard/internal/core/ports"
)

// ChatHandler serves the AI chat transcript of the signed-in identity.
type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type transcriptResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// List returns the transcript.
//
// @Summary      Chat transcript
// @Tags         chat
// @Produce      json
// @Success      200  {object}  transcriptResponse
// @Router       /chat/messages [get]
func (h *ChatHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transcriptResponse{
		Messages: h.chat.Messages(c.Request().Context(), identity.ID),
	})
}

// Send appends a user message. The assistant reply shows up in the
// transcript after a short delay.
//
// @Summary      Send chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      202   {object}  domain.ChatMessage
// @Failure      400   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /chat/messages [post]
func (h *ChatHandler) Send(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	msg, err := h.chat.Send(c.Request().Context(), identity.ID, req.Content)
	if err != nil {
		return err
	}
	metrics.ChatMessagesTotal.Inc()
	return c.JSON(http.StatusAccepted, msg)
}
