package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
)

// CatalogHandler serves workers, jobs, applications and reference data.
type CatalogHandler struct {
	api ports.MarketplaceAPI
}

func NewCatalogHandler(api ports.MarketplaceAPI) *CatalogHandler {
	return &CatalogHandler{api: api}
}

func (h *CatalogHandler) ListWorkers(c echo.Context) error {
	workers, err := h.api.GetWorkers(c.Request().Context())
	if err != nil {
		return err
	}
	encoded := make([]json.RawMessage, 0, len(workers))
	for _, w := range workers {
		raw, err := domain.EncodeUser(w)
		if err != nil {
			return err
		}
		encoded = append(encoded, raw)
	}
	return respond(c, http.StatusOK, encoded)
}

func (h *CatalogHandler) GetWorker(c echo.Context) error {
	worker, err := h.api.GetWorkerByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	raw, err := domain.EncodeUser(worker)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, json.RawMessage(raw))
}

func (h *CatalogHandler) ListJobs(c echo.Context) error {
	jobs, err := h.api.GetJobs(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, jobs)
}

func (h *CatalogHandler) GetJob(c echo.Context) error {
	job, err := h.api.GetJobByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, job)
}

func (h *CatalogHandler) CreateJob(c echo.Context) error {
	if callerRole(c) != domain.RoleClient {
		return domain.ErrForbidden
	}

	var req ports.JobInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.api.CreateJob(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, job)
}

func (h *CatalogHandler) DeleteJob(c echo.Context) error {
	if err := h.api.DeleteJob(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil)
}

func (h *CatalogHandler) ListApplications(c echo.Context) error {
	ctx := c.Request().Context()
	if jobID := c.QueryParam("job"); jobID != "" {
		apps, err := h.api.GetApplicationsByJob(ctx, jobID)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, apps)
	}
	apps, err := h.api.GetApplications(ctx)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, apps)
}

func (h *CatalogHandler) CreateApplication(c echo.Context) error {
	if callerRole(c) != domain.RoleWorker {
		return domain.ErrForbidden
	}

	var req ports.ApplicationInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	app, err := h.api.CreateApplication(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, app)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.api.GetCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cats)
}

func (h *CatalogHandler) ListLocations(c echo.Context) error {
	locs, err := h.api.GetLocations(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, locs)
}
