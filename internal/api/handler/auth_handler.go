package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
)

// AuthHandler serves the /auth/ endpoints of the local dev server.
type AuthHandler struct {
	api       ports.MarketplaceAPI
	directory ports.UserDirectory
}

func NewAuthHandler(api ports.MarketplaceAPI, directory ports.UserDirectory) *AuthHandler {
	return &AuthHandler{api: api, directory: directory}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=client worker"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=client worker"`
	Location string `json:"location"`
	Avatar   string `json:"avatar"`

	Company        string   `json:"company"`
	Category       string   `json:"category"`
	Skills         []string `json:"skills"`
	Bio            string   `json:"bio"`
	Certifications []string `json:"certifications"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type authResponse struct {
	User    json.RawMessage `json:"user"`
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
}

func authPayload(result *ports.AuthResult) (authResponse, error) {
	user, err := domain.EncodeUser(result.User)
	if err != nil {
		return authResponse{}, err
	}
	return authResponse{
		User:    user,
		Access:  result.AccessToken,
		Refresh: result.RefreshToken,
	}, nil
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.api.Login(c.Request().Context(), ports.LoginCredentials{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	payload, err := authPayload(result)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, payload)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.api.Register(c.Request().Context(), ports.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		Role:           domain.Role(req.Role),
		Location:       req.Location,
		Avatar:         req.Avatar,
		Company:        req.Company,
		Category:       req.Category,
		Skills:         req.Skills,
		Bio:            req.Bio,
		Certifications: req.Certifications,
	})
	if err != nil {
		return err
	}

	payload, err := authPayload(result)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, payload)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.api.Logout(c.Request().Context(), req.Refresh); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	access, err := h.api.RefreshTokens(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{"access": access})
}

// CurrentUser resolves the caller from the bearer token's subject so the
// endpoint stays stateless across concurrent sessions.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	user, ok := h.directory.UserByID(callerID(c))
	if !ok {
		return domain.ErrUserNotFound
	}
	encoded, err := domain.EncodeUser(user)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, json.RawMessage(encoded))
}

type updateProfileRequest struct {
	Name         *string              `json:"name"`
	Avatar       *string              `json:"avatar"`
	Phone        *string              `json:"phone"`
	Location     *string              `json:"location"`
	Bio          *string              `json:"bio"`
	HourlyRate   *float64             `json:"hourly_rate"`
	Availability *domain.Availability `json:"availability"`
	Skills       *[]string            `json:"skills"`
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.api.UpdateProfile(c.Request().Context(), ports.ProfileUpdate{
		Name:         req.Name,
		Avatar:       req.Avatar,
		Phone:        req.Phone,
		Location:     req.Location,
		Bio:          req.Bio,
		HourlyRate:   req.HourlyRate,
		Availability: req.Availability,
		Skills:       req.Skills,
	})
	if err != nil {
		return err
	}
	encoded, err := domain.EncodeUser(user)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, json.RawMessage(encoded))
}
