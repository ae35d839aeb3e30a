package handler

import (
	"github.com/labstack/echo/v4"
)

// envelope is the canonical response wrapper. Every success response carries
// its payload under data with success=true; errors are rendered by the
// central error handler with success=false.
type envelope struct {
	Data    any    `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Data: data, Success: true})
}
