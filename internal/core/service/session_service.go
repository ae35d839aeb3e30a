package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
	"github.com/skilllink/skilllink-client/internal/pkg/authtoken"
)

// SessionState is the authentication lifecycle state.
type SessionState string

const (
	StateInitializing    SessionState = "initializing"
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticated   SessionState = "authenticated"
	StateAuthError       SessionState = "auth_error"
)

// SessionService mediates all identity transitions. It is the only writer of
// the persisted token pair and user mirror, and it keeps the in-memory
// session and persisted credentials from diverging past a single failed
// operation.
//
// Overlapping operations are serialised by a monotonic sequence number: every
// mutating operation takes a number at start and its result is applied only
// if no newer operation has started since, so a slow stale response can never
// clobber a newer session state.
type SessionService struct {
	api   ports.MarketplaceAPI
	creds *CredentialStore
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.Mutex
	seq     uint64
	state   SessionState
	current domain.User
	lastErr string
}

func NewSessionService(api ports.MarketplaceAPI, creds *CredentialStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		api:   api,
		creds: creds,
		log:   log,
		now:   time.Now,
		state: StateInitializing,
	}
}

// begin registers the start of a mutating operation and returns its sequence
// number.
func (s *SessionService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// commit applies fn only if no newer operation has started since seq was
// taken. Returns whether fn ran.
func (s *SessionService) commit(seq uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.log.Debug().Uint64("seq", seq).Uint64("current", s.seq).Msg("discarding stale session result")
		return false
	}
	fn()
	return true
}

// Initialize restores the session on process start. With a live, unexpired
// access token it fetches the current user; if that fetch fails but a mirror
// of the user survives locally, the session degrades to the mirror rather
// than forcing a re-login.
func (s *SessionService) Initialize(ctx context.Context) {
	seq := s.begin()

	if authtoken.Expired(s.creds.AccessToken(), s.now()) {
		s.commit(seq, func() {
			s.state = StateUnauthenticated
			s.current = nil
		})
		return
	}

	user, err := s.api.GetCurrentUser(ctx)
	if err == nil {
		s.commit(seq, func() {
			s.state = StateAuthenticated
			s.current = user
			if err := s.creds.SetUser(user); err != nil {
				s.log.Warn().Err(err).Msg("failed to refresh user mirror")
			}
		})
		return
	}

	if stored := s.creds.StoredUser(); stored != nil {
		s.log.Warn().Err(err).Msg("current-user fetch failed; using persisted record")
		s.commit(seq, func() {
			s.state = StateAuthenticated
			s.current = stored
		})
		return
	}

	s.commit(seq, func() {
		s.creds.Clear()
		s.state = StateUnauthenticated
		s.current = nil
	})
}

// Login authenticates and reports success as a boolean so UI flows can branch
// without exception handling; the failure message is kept in LastError. A
// login whose response arrives after a newer operation is discarded and
// reported as unsuccessful.
func (s *SessionService) Login(ctx context.Context, creds ports.LoginCredentials) bool {
	seq := s.begin()

	result, err := s.api.Login(ctx, creds)
	if err != nil {
		s.commit(seq, func() {
			s.state = StateAuthError
			s.lastErr = userMessage(err)
		})
		s.log.Info().Str("email", creds.Email).Msg("login failed")
		return false
	}

	return s.commit(seq, func() { s.adopt(result) })
}

// Register creates a new identity under the same contract as Login.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) bool {
	seq := s.begin()

	result, err := s.api.Register(ctx, input)
	if err != nil {
		s.commit(seq, func() {
			s.state = StateAuthError
			s.lastErr = userMessage(err)
		})
		s.log.Info().Str("email", input.Email).Msg("registration failed")
		return false
	}

	return s.commit(seq, func() { s.adopt(result) })
}

// adopt installs a fresh auth result. Caller holds the mutex via commit.
func (s *SessionService) adopt(result *ports.AuthResult) {
	if err := s.creds.SetTokens(result.AccessToken, result.RefreshToken); err != nil {
		s.log.Error().Err(err).Msg("failed to persist token pair")
	}
	if err := s.creds.SetUser(result.User); err != nil {
		s.log.Error().Err(err).Msg("failed to persist user mirror")
	}
	s.state = StateAuthenticated
	s.current = result.User
	s.lastErr = ""
}

// Logout invalidates the refresh token remotely on a best-effort basis and
// clears local state regardless of the remote outcome.
func (s *SessionService) Logout(ctx context.Context) {
	seq := s.begin()

	if refresh := s.creds.RefreshToken(); refresh != "" {
		if err := s.api.Logout(ctx, refresh); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed; clearing local session anyway")
		}
	}

	s.commit(seq, func() {
		s.creds.Clear()
		s.state = StateUnauthenticated
		s.current = nil
		s.lastErr = ""
	})
}

// Invalidate is the session-invalidated sink: wired as the HTTP client's
// callback for the refresh-also-failed case. It purges credentials and
// supersedes any operation still in flight.
func (s *SessionService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.creds.Clear()
	s.state = StateUnauthenticated
	s.current = nil
	s.lastErr = "session expired, please sign in again"
	s.log.Info().Msg("session invalidated")
}

// CurrentUser returns the active identity, or nil.
func (s *SessionService) CurrentUser() domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsAuthenticated reports whether a usable session exists: authenticated
// state and an unexpired stored access token.
func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated && !authtoken.Expired(s.creds.AccessToken(), s.now())
}

// State returns the lifecycle state.
func (s *SessionService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the user-facing message from the most recent failed
// login or registration.
func (s *SessionService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// userMessage extracts a displayable message from an operation error.
func userMessage(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
