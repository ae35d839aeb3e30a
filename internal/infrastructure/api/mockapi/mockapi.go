// Package mockapi is the in-memory demo backend. It implements the same
// capability set as the live REST client against a seeded dataset, so the
// rest of the system cannot tell which mode is active.
package mockapi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Service is the demo implementation of ports.MarketplaceAPI. It also serves
// as the ports.UserDirectory for conversation previews.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	latency    time.Duration
	now        func() time.Time
	log        zerolog.Logger

	mu             sync.Mutex
	data           *dataset
	currentID      string // the active demo session, empty when signed out
	revokedRefresh map[string]struct{}
}

// Option customises the demo backend.
type Option func(*Service)

// WithLatency makes every call sleep for d, simulating network delay.
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTokenTTLs overrides the token lifetimes.
func WithTokenTTLs(access, refresh time.Duration) Option {
	return func(s *Service) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

func New(secret string, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		secret:         []byte(secret),
		accessTTL:      defaultAccessTTL,
		refreshTTL:     defaultRefreshTTL,
		now:            time.Now,
		log:            log,
		data:           seedDataset(),
		revokedRefresh: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// delay simulates network latency, honouring cancellation.
func (s *Service) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.latency):
		return nil
	}
}

// ── Authentication ───────────────────────────────────────────────────────────

func (s *Service) Login(ctx context.Context, creds ports.LoginCredentials) (*ports.AuthResult, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByEmail(creds.Email)
	if user == nil || user.Role() != creds.Role {
		return nil, domain.ErrInvalidCredentials
	}
	hash, ok := s.data.passwords[user.Base().ID]
	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.currentID = user.Base().ID
	s.log.Info().Str("user_id", s.currentID).Msg("demo login")
	return result, nil
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !input.Role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}
	if s.findByEmail(input.Email) != nil {
		return nil, domain.ErrUserExists
	}

	now := s.now().UTC()
	profile := domain.Profile{
		// Role prefix plus current time keeps ids unique within a session.
		ID:        fmt.Sprintf("%c-%d", input.Role[0], now.UnixMilli()),
		Name:      input.Name,
		Email:     input.Email,
		Avatar:    input.Avatar,
		Phone:     input.Phone,
		Location:  input.Location,
		CreatedAt: now,
	}

	var user domain.User
	switch input.Role {
	case domain.RoleWorker:
		category := input.Category
		if category == "" {
			category = "General"
		}
		skills := input.Skills
		if skills == nil {
			skills = []string{}
		}
		user = &domain.Worker{
			Profile:         profile,
			Skills:          skills,
			Category:        category,
			ExperienceYears: 0,
			Rating:          0,
			TotalJobs:       0,
			Availability:    domain.AvailabilityAvailable,
			Bio:             input.Bio,
			Certifications:  input.Certifications,
		}
	default:
		user = &domain.Client{
			Profile:    profile,
			Company:    input.Company,
			JobsPosted: 0,
			TotalSpent: 0,
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	s.data.users = append(s.data.users, user)
	s.data.passwords[profile.ID] = string(hash)

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.currentID = profile.ID
	s.log.Info().Str("user_id", s.currentID).Str("role", string(input.Role)).Msg("demo registration")
	return result, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if refreshToken != "" {
		s.revokedRefresh[refreshToken] = struct{}{}
	}
	s.currentID = ""
	return nil
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (string, error) {
	if err := s.delay(ctx); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, revoked := s.revokedRefresh[refreshToken]; revoked {
		return "", domain.ErrInvalidCredentials
	}
	userID, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	user := s.findByID(userID)
	if user == nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.mintAccessToken(user, s.now())
}

func (s *Service) GetCurrentUser(ctx context.Context) (domain.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, domain.ErrUnauthenticated
	}
	user := s.findByID(s.currentID)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *Service) UpdateProfile(ctx context.Context, update ports.ProfileUpdate) (domain.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, domain.ErrUnauthenticated
	}
	user := s.findByID(s.currentID)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	base := user.Base()
	if update.Name != nil {
		base.Name = *update.Name
	}
	if update.Avatar != nil {
		base.Avatar = *update.Avatar
	}
	if update.Phone != nil {
		base.Phone = *update.Phone
	}
	if update.Location != nil {
		base.Location = *update.Location
	}
	if w, ok := user.(*domain.Worker); ok {
		if update.Bio != nil {
			w.Bio = *update.Bio
		}
		if update.HourlyRate != nil {
			w.HourlyRate = *update.HourlyRate
		}
		if update.Availability != nil {
			w.Availability = *update.Availability
		}
		if update.Skills != nil {
			w.Skills = *update.Skills
		}
	}
	return cloneUser(user), nil
}

// ── Workers and jobs ─────────────────────────────────────────────────────────

func (s *Service) GetWorkers(ctx context.Context) ([]*domain.Worker, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Worker
	for _, u := range s.data.users {
		if w, ok := u.(*domain.Worker); ok {
			clone := *w
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *Service) GetWorkerByID(ctx context.Context, id string) (*domain.Worker, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.findByID(id).(*domain.Worker); ok {
		clone := *w
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *Service) GetJobs(ctx context.Context) ([]*domain.Job, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Job, 0, len(s.data.jobs))
	for _, j := range s.data.jobs {
		clone := *j
		out = append(out, &clone)
	}
	return out, nil
}

func (s *Service) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.data.jobs {
		if j.ID == id {
			clone := *j
			return &clone, nil
		}
	}
	return nil, domain.ErrJobNotFound
}

func (s *Service) CreateJob(ctx context.Context, input ports.JobInput) (*domain.Job, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, domain.ErrUnauthenticated
	}
	current := s.findByID(s.currentID)
	if current == nil || current.Role() != domain.RoleClient {
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	job := &domain.Job{
		ID:          fmt.Sprintf("j-%d", now.UnixMilli()),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Budget:      input.Budget,
		Duration:    input.Duration,
		ClientID:    s.currentID,
		Status:      domain.JobOpen,
		Skills:      input.Skills,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.data.jobs = append(s.data.jobs, job)
	clone := *job
	return &clone, nil
}

func (s *Service) DeleteJob(ctx context.Context, id string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, j := range s.data.jobs {
		if j.ID == id {
			s.data.jobs = append(s.data.jobs[:i], s.data.jobs[i+1:]...)
			return nil
		}
	}
	return domain.ErrJobNotFound
}

// ── Applications ─────────────────────────────────────────────────────────────

func (s *Service) GetApplications(ctx context.Context) ([]*domain.Application, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Application, 0, len(s.data.applications))
	for _, a := range s.data.applications {
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (s *Service) GetApplicationsByJob(ctx context.Context, jobID string) ([]*domain.Application, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Application
	for _, a := range s.data.applications {
		if a.JobID == jobID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *Service) CreateApplication(ctx context.Context, input ports.ApplicationInput) (*domain.Application, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, domain.ErrUnauthenticated
	}
	current := s.findByID(s.currentID)
	if current == nil || current.Role() != domain.RoleWorker {
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	app := &domain.Application{
		ID:           fmt.Sprintf("a-%d", now.UnixMilli()),
		JobID:        input.JobID,
		WorkerID:     s.currentID,
		Message:      input.Message,
		ProposedRate: input.ProposedRate,
		Status:       domain.ApplicationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.data.applications = append(s.data.applications, app)
	clone := *app
	return &clone, nil
}

// ── Messages ─────────────────────────────────────────────────────────────────

// GetMessages returns a canned thread between the active session and the
// recipient. Real chat history lives in the local conversation store; this
// endpoint exists only for interface parity with the live API.
func (s *Service) GetMessages(ctx context.Context, recipientID string) ([]domain.Message, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, domain.ErrUnauthenticated
	}
	now := s.now().UTC()
	return []domain.Message{
		{
			ID: "msg1", SenderID: s.currentID, ReceiverID: recipientID,
			Content: "Hi, I saw your job posting and I'm interested.",
			SentAt:  now.Add(-time.Hour), Read: true,
		},
		{
			ID: "msg2", SenderID: recipientID, ReceiverID: s.currentID,
			Content: "Great! When are you available to start?",
			SentAt:  now.Add(-30 * time.Minute), Read: false,
		},
	}, nil
}

func (s *Service) SendMessage(ctx context.Context, input ports.MessageInput) (domain.Message, error) {
	if err := s.delay(ctx); err != nil {
		return domain.Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return domain.Message{}, domain.ErrUnauthenticated
	}
	now := s.now().UTC()
	return domain.Message{
		ID:         fmt.Sprintf("msg-%d", now.UnixMilli()),
		SenderID:   s.currentID,
		ReceiverID: input.ReceiverID,
		JobID:      input.JobID,
		Content:    input.Content,
		SentAt:     now,
	}, nil
}

// ── Reference data and uploads ───────────────────────────────────────────────

func (s *Service) GetCategories(ctx context.Context) ([]domain.Category, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, len(s.data.categories))
	copy(out, s.data.categories)
	return out, nil
}

func (s *Service) GetLocations(ctx context.Context) ([]domain.Location, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Location, len(s.data.locations))
	copy(out, s.data.locations)
	return out, nil
}

func (s *Service) UploadFile(ctx context.Context, input ports.UploadInput) (string, error) {
	if err := s.delay(ctx); err != nil {
		return "", err
	}
	switch input.Kind {
	case "profile":
		return "https://demo.skilllink.local/uploads/profile-placeholder.png", nil
	case "job":
		return "https://demo.skilllink.local/uploads/job-placeholder.png", nil
	default:
		return "https://demo.skilllink.local/uploads/document-placeholder.pdf", nil
	}
}

// ── Directory ────────────────────────────────────────────────────────────────

// UserByID implements ports.UserDirectory.
func (s *Service) UserByID(id string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.findByID(id); u != nil {
		return cloneUser(u), true
	}
	return nil, false
}

// ── Internal helpers (caller holds the mutex) ────────────────────────────────

func (s *Service) findByEmail(email string) domain.User {
	for _, u := range s.data.users {
		if strings.EqualFold(u.Base().Email, email) {
			return u
		}
	}
	return nil
}

func (s *Service) findByID(id string) domain.User {
	for _, u := range s.data.users {
		if u.Base().ID == id {
			return u
		}
	}
	return nil
}

func (s *Service) issueTokens(user domain.User) (*ports.AuthResult, error) {
	now := s.now()
	access, err := s.mintAccessToken(user, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.mintRefreshToken(user, now)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		User:         cloneUser(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func cloneUser(u domain.User) domain.User {
	switch v := u.(type) {
	case *domain.Client:
		clone := *v
		return &clone
	case *domain.Worker:
		clone := *v
		return &clone
	default:
		return u
	}
}
