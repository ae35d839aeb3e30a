// Package httpapi is the live implementation of ports.MarketplaceAPI over the
// SkillLink REST backend. Every response is expected in the
// {data, success, message} envelope.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
	"github.com/skilllink/skilllink-client/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Client talks to the remote API with bearer credentials supplied by the
// session layer. Authenticated requests pass through a single-retry refresh
// stage on 401; the exactly-once guarantee is structural (see authed).
type Client struct {
	baseURL string
	http    *http.Client
	creds   ports.CredentialSource
	log     zerolog.Logger

	// onSessionInvalidated fires after a failed refresh has purged the stored
	// credentials; the session layer uses it to drop its in-memory state.
	onSessionInvalidated func()
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSessionInvalidatedHook registers the global session-invalidated sink.
func WithSessionInvalidatedHook(fn func()) Option {
	return func(c *Client) { c.onSessionInvalidated = fn }
}

func New(baseURL string, creds ports.CredentialSource, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		creds:   creds,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the wrapper every API response uses.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
}

// authPayload is the data shape of login and register responses.
type authPayload struct {
	User    json.RawMessage `json:"user"`
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
}

// ── Authentication ───────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, creds ports.LoginCredentials) (*ports.AuthResult, error) {
	body := map[string]any{
		"email":    creds.Email,
		"password": creds.Password,
		"role":     creds.Role,
	}
	var payload authPayload
	if _, err := c.doOnce(ctx, "login", http.MethodPost, "/auth/login/", body, &payload, false); err != nil {
		return nil, err
	}
	return decodeAuthPayload(payload)
}

func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	body := map[string]any{
		"name":     input.Name,
		"email":    input.Email,
		"password": input.Password,
		"phone":    input.Phone,
		"role":     input.Role,
		"location": input.Location,
		"avatar":   input.Avatar,
	}
	switch input.Role {
	case domain.RoleClient:
		body["company"] = input.Company
	case domain.RoleWorker:
		body["category"] = input.Category
		body["skills"] = input.Skills
		body["bio"] = input.Bio
		body["certifications"] = input.Certifications
	}
	var payload authPayload
	if _, err := c.doOnce(ctx, "register", http.MethodPost, "/auth/register/", body, &payload, false); err != nil {
		return nil, err
	}
	return decodeAuthPayload(payload)
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	_, err := c.doOnce(ctx, "logout", http.MethodPost, "/auth/logout/", body, nil, true)
	return err
}

func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh": refreshToken}
	var out struct {
		Access string `json:"access"`
	}
	if _, err := c.doOnce(ctx, "refresh", http.MethodPost, "/auth/refresh/", body, &out, false); err != nil {
		return "", err
	}
	return out.Access, nil
}

func (c *Client) GetCurrentUser(ctx context.Context) (domain.User, error) {
	var raw json.RawMessage
	if err := c.authed(ctx, "current_user", http.MethodGet, "/auth/user/", nil, &raw); err != nil {
		return nil, err
	}
	return domain.DecodeUser(raw)
}

func (c *Client) UpdateProfile(ctx context.Context, update ports.ProfileUpdate) (domain.User, error) {
	body := map[string]any{}
	if update.Name != nil {
		body["name"] = *update.Name
	}
	if update.Avatar != nil {
		body["avatar"] = *update.Avatar
	}
	if update.Phone != nil {
		body["phone"] = *update.Phone
	}
	if update.Location != nil {
		body["location"] = *update.Location
	}
	if update.Bio != nil {
		body["bio"] = *update.Bio
	}
	if update.HourlyRate != nil {
		body["hourly_rate"] = *update.HourlyRate
	}
	if update.Availability != nil {
		body["availability"] = *update.Availability
	}
	if update.Skills != nil {
		body["skills"] = *update.Skills
	}
	var raw json.RawMessage
	if err := c.authed(ctx, "update_profile", http.MethodPatch, "/auth/user/", body, &raw); err != nil {
		return nil, err
	}
	return domain.DecodeUser(raw)
}

// ── Workers and jobs ─────────────────────────────────────────────────────────

func (c *Client) GetWorkers(ctx context.Context) ([]*domain.Worker, error) {
	var raws []json.RawMessage
	if err := c.authed(ctx, "get_workers", http.MethodGet, "/workers/", nil, &raws); err != nil {
		return nil, err
	}
	return decodeWorkers(raws)
}

func (c *Client) GetWorkerByID(ctx context.Context, id string) (*domain.Worker, error) {
	var raw json.RawMessage
	if err := c.authed(ctx, "get_worker", http.MethodGet, "/workers/"+url.PathEscape(id)+"/", nil, &raw); err != nil {
		return nil, err
	}
	u, err := domain.DecodeUser(raw)
	if err != nil {
		return nil, err
	}
	w, ok := u.(*domain.Worker)
	if !ok {
		return nil, fmt.Errorf("get_worker: %s is not a worker", id)
	}
	return w, nil
}

func (c *Client) GetJobs(ctx context.Context) ([]*domain.Job, error) {
	var jobs []*domain.Job
	if err := c.authed(ctx, "get_jobs", http.MethodGet, "/jobs/", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := c.authed(ctx, "get_job", http.MethodGet, "/jobs/"+url.PathEscape(id)+"/", nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, input ports.JobInput) (*domain.Job, error) {
	var job domain.Job
	if err := c.authed(ctx, "create_job", http.MethodPost, "/jobs/", input, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.authed(ctx, "delete_job", http.MethodDelete, "/jobs/"+url.PathEscape(id)+"/", nil, nil)
}

// ── Applications ─────────────────────────────────────────────────────────────

func (c *Client) GetApplications(ctx context.Context) ([]*domain.Application, error) {
	var apps []*domain.Application
	if err := c.authed(ctx, "get_applications", http.MethodGet, "/applications/", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) GetApplicationsByJob(ctx context.Context, jobID string) ([]*domain.Application, error) {
	var apps []*domain.Application
	path := "/applications/?job=" + url.QueryEscape(jobID)
	if err := c.authed(ctx, "get_applications_by_job", http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) CreateApplication(ctx context.Context, input ports.ApplicationInput) (*domain.Application, error) {
	var app domain.Application
	if err := c.authed(ctx, "create_application", http.MethodPost, "/applications/", input, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// ── Messages, reference data, uploads ────────────────────────────────────────

func (c *Client) GetMessages(ctx context.Context, recipientID string) ([]domain.Message, error) {
	var msgs []domain.Message
	path := "/messages/?recipient=" + url.QueryEscape(recipientID)
	if err := c.authed(ctx, "get_messages", http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) SendMessage(ctx context.Context, input ports.MessageInput) (domain.Message, error) {
	var msg domain.Message
	if err := c.authed(ctx, "send_message", http.MethodPost, "/messages/", input, &msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.authed(ctx, "get_categories", http.MethodGet, "/categories/", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) GetLocations(ctx context.Context) ([]domain.Location, error) {
	var locs []domain.Location
	if err := c.authed(ctx, "get_locations", http.MethodGet, "/locations/", nil, &locs); err != nil {
		return nil, err
	}
	return locs, nil
}

func (c *Client) UploadFile(ctx context.Context, input ports.UploadInput) (string, error) {
	// Buffer the content so the request can be rebuilt for the retry stage.
	content, err := io.ReadAll(input.Content)
	if err != nil {
		return "", fmt.Errorf("upload: read content: %w", err)
	}

	build := func() (io.Reader, string, error) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", input.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(content); err != nil {
			return nil, "", err
		}
		if err := mw.WriteField("type", input.Kind); err != nil {
			return nil, "", err
		}
		if err := mw.Close(); err != nil {
			return nil, "", err
		}
		return &buf, mw.FormDataContentType(), nil
	}

	var out struct {
		URL string `json:"url"`
	}
	err = c.authedRaw(ctx, "upload", http.MethodPost, "/upload/", build, &out)
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// ── Transport core ───────────────────────────────────────────────────────────

// authed performs an authenticated exchange with the single-retry refresh
// stage. The retry cannot recurse: the second attempt's 401 escalates
// directly to invalidation, so each original request triggers at most one
// refresh and one retransmission.
func (c *Client) authed(ctx context.Context, endpoint, method, path string, body, out any) error {
	status, err := c.doOnce(ctx, endpoint, method, path, body, out, true)
	if status != http.StatusUnauthorized {
		return err
	}

	if !c.refresh(ctx) {
		c.invalidate()
		return domain.ErrSessionInvalidated
	}

	metrics.RequestRetriesTotal.Inc()
	c.log.Debug().Str("endpoint", endpoint).Msg("retransmitting after token refresh")
	status, err = c.doOnce(ctx, endpoint, method, path, body, out, true)
	if status == http.StatusUnauthorized {
		c.invalidate()
		return domain.ErrSessionInvalidated
	}
	return err
}

// authedRaw is authed for requests whose body is not JSON (uploads).
func (c *Client) authedRaw(ctx context.Context, endpoint, method, path string, build func() (io.Reader, string, error), out any) error {
	status, err := c.exchange(ctx, endpoint, method, path, build, out, true)
	if status != http.StatusUnauthorized {
		return err
	}
	if !c.refresh(ctx) {
		c.invalidate()
		return domain.ErrSessionInvalidated
	}
	metrics.RequestRetriesTotal.Inc()
	status, err = c.exchange(ctx, endpoint, method, path, build, out, true)
	if status == http.StatusUnauthorized {
		c.invalidate()
		return domain.ErrSessionInvalidated
	}
	return err
}

// doOnce performs exactly one JSON exchange. A 401 is reported through the
// status return so the caller can decide whether a refresh stage applies.
func (c *Client) doOnce(ctx context.Context, endpoint, method, path string, body, out any, attachAuth bool) (int, error) {
	build := func() (io.Reader, string, error) {
		if body == nil {
			return nil, "", nil
		}
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	}
	return c.exchange(ctx, endpoint, method, path, build, out, attachAuth)
}

func (c *Client) exchange(ctx context.Context, endpoint, method, path string, build func() (io.Reader, string, error), out any, attachAuth bool) (int, error) {
	reader, contentType, err := build()
	if err != nil {
		return 0, fmt.Errorf("%s: encode request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if attachAuth {
		if token := c.creds.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return 0, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return resp.StatusCode, fmt.Errorf("%s: read response: %w", endpoint, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "unauthorized").Inc()
		return resp.StatusCode, &domain.APIError{Status: resp.StatusCode, Message: envelopeMessage(raw)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return resp.StatusCode, fmt.Errorf("%s: decode response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, &domain.APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return resp.StatusCode, fmt.Errorf("%s: decode payload: %w", endpoint, err)
		}
	}

	metrics.APIRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return resp.StatusCode, nil
}

// refresh spends the stored refresh token on a new access token. Returns
// whether the stored access token was replaced.
func (c *Client) refresh(ctx context.Context) bool {
	refreshToken := c.creds.RefreshToken()
	if refreshToken == "" {
		metrics.TokenRefreshTotal.WithLabelValues("error").Inc()
		return false
	}

	access, err := c.RefreshTokens(ctx, refreshToken)
	if err != nil || access == "" {
		metrics.TokenRefreshTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Msg("token refresh failed")
		return false
	}
	if err := c.creds.StoreAccessToken(access); err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("error").Inc()
		c.log.Error().Err(err).Msg("failed to persist refreshed access token")
		return false
	}
	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
	return true
}

// invalidate purges stored credentials and notifies the session layer. After
// this the user must authenticate from scratch.
func (c *Client) invalidate() {
	c.creds.Clear()
	metrics.SessionInvalidationsTotal.Inc()
	c.log.Info().Msg("credentials purged after failed refresh")
	if c.onSessionInvalidated != nil {
		c.onSessionInvalidated()
	}
}

func envelopeMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return http.StatusText(http.StatusUnauthorized)
}

func decodeAuthPayload(payload authPayload) (*ports.AuthResult, error) {
	user, err := domain.DecodeUser(payload.User)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		User:         user,
		AccessToken:  payload.Access,
		RefreshToken: payload.Refresh,
	}, nil
}

func decodeWorkers(raws []json.RawMessage) ([]*domain.Worker, error) {
	workers := make([]*domain.Worker, 0, len(raws))
	for _, raw := range raws {
		u, err := domain.DecodeUser(raw)
		if err != nil {
			return nil, err
		}
		if w, ok := u.(*domain.Worker); ok {
			workers = append(workers, w)
		}
	}
	return workers, nil
}
