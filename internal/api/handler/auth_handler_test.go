package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/infrastructure/api/mockapi"
)

func newAuthTestContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder, *AuthHandler) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	svc := mockapi.New("test-secret", zerolog.Nop())
	h := NewAuthHandler(svc, svc)

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, h
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	c, rec, h := newAuthTestContext(t, http.MethodPost,
		`{"email":"emily.rodriguez@email.com","password":"demo123","role":"client"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data struct {
			User    json.RawMessage `json:"user"`
			Access  string          `json:"access"`
			Refresh string          `json:"refresh"`
		} `json:"data"`
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope")
	}
	if resp.Data.Access == "" || resp.Data.Refresh == "" {
		t.Fatalf("expected both tokens in payload")
	}

	user, err := domain.DecodeUser(resp.Data.User)
	if err != nil {
		t.Fatalf("decode user payload: %v", err)
	}
	if user.Base().ID != "c1" || user.Role() != domain.RoleClient {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthHandler_LoginBadCredentials(t *testing.T) {
	c, _, h := newAuthTestContext(t, http.MethodPost,
		`{"email":"emily.rodriguez@email.com","password":"wrong","role":"client"}`)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	c, _, h := newAuthTestContext(t, http.MethodPost,
		`{"email":"not-an-email","password":"demo123","role":"client"}`)

	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %v", err)
	}
}

func TestAuthHandler_RegisterCreated(t *testing.T) {
	c, rec, h := newAuthTestContext(t, http.MethodPost,
		`{"name":"New Client","email":"new.client@email.com","password":"secret1","phone":"+1 555","role":"client","company":"NC LLC"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("register handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_RegisterShortPassword(t *testing.T) {
	c, _, h := newAuthTestContext(t, http.MethodPost,
		`{"name":"X","email":"x@y.com","password":"abc","phone":"1","role":"client"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %v", err)
	}
}

func TestAuthHandler_CurrentUserResolvesFromContext(t *testing.T) {
	e := echo.New()
	svc := mockapi.New("test-secret", zerolog.Nop())
	h := NewAuthHandler(svc, svc)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserID, "w1")

	if err := h.CurrentUser(c); err != nil {
		t.Fatalf("current user: %v", err)
	}

	var resp struct {
		Data    json.RawMessage `json:"data"`
		Success bool            `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	user, err := domain.DecodeUser(resp.Data)
	if err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Base().ID != "w1" || user.Role() != domain.RoleWorker {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthHandler_CurrentUserUnknownID(t *testing.T) {
	e := echo.New()
	svc := mockapi.New("test-secret", zerolog.Nop())
	h := NewAuthHandler(svc, svc)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set(CtxUserID, "ghost")

	if err := h.CurrentUser(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
