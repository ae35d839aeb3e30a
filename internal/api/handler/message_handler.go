package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilllink/skilllink-client/internal/core/ports"
)

// MessageHandler serves the /messages/ endpoints.
type MessageHandler struct {
	api ports.MarketplaceAPI
}

func NewMessageHandler(api ports.MarketplaceAPI) *MessageHandler {
	return &MessageHandler{api: api}
}

func (h *MessageHandler) List(c echo.Context) error {
	recipient := c.QueryParam("recipient")
	if recipient == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "recipient is required")
	}
	msgs, err := h.api.GetMessages(c.Request().Context(), recipient)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, msgs)
}

func (h *MessageHandler) Send(c echo.Context) error {
	var req ports.MessageInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.api.SendMessage(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, msg)
}
