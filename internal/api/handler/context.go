package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/skilllink/skilllink-client/internal/core/domain"
)

// Context keys populated by the auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "user_role"
	CtxEmail  = "user_email"
)

func callerID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}

func callerRole(c echo.Context) domain.Role {
	role, _ := c.Get(CtxRole).(string)
	return domain.Role(role)
}
