package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
)

// memCreds is an in-memory ports.CredentialSource.
type memCreds struct {
	access  string
	refresh string
	cleared bool
}

func (m *memCreds) AccessToken() string  { return m.access }
func (m *memCreds) RefreshToken() string { return m.refresh }
func (m *memCreds) StoreAccessToken(token string) error {
	m.access = token
	return nil
}
func (m *memCreds) Clear() {
	m.access, m.refresh = "", ""
	m.cleared = true
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_RetriesExactlyOnceAfterRefresh(t *testing.T) {
	jobsCalls, refreshCalls := 0, 0
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		jobsCalls++
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			writeBody(w, http.StatusUnauthorized, `{"success":false,"message":"token expired"}`)
			return
		}
		writeBody(w, http.StatusOK, `{"data":[{"id":"j1","title":"Kitchen Cabinet Installation","status":"open"}],"success":true}`)
	})
	mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		writeBody(w, http.StatusOK, `{"data":{"access":"fresh-token"},"success":true}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &memCreds{access: "stale-token", refresh: "refresh-token"}
	client := New(srv.URL, creds, zerolog.Nop())

	jobs, err := client.GetJobs(context.Background())
	if err != nil {
		t.Fatalf("GetJobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "j1" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	if jobsCalls != 2 {
		t.Fatalf("jobs endpoint hit %d times, want exactly 2 (original + one retry)", jobsCalls)
	}
	if refreshCalls != 1 {
		t.Fatalf("refresh endpoint hit %d times, want exactly 1", refreshCalls)
	}
	if creds.access != "fresh-token" {
		t.Fatalf("refreshed access token not persisted, have %q", creds.access)
	}
}

func TestClient_RefreshFailurePurgesAndNotifies(t *testing.T) {
	jobsCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		jobsCalls++
		writeBody(w, http.StatusUnauthorized, `{"success":false,"message":"token expired"}`)
	})
	mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusUnauthorized, `{"success":false,"message":"refresh token expired"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &memCreds{access: "stale", refresh: "stale-refresh"}
	invalidated := false
	client := New(srv.URL, creds, zerolog.Nop(),
		WithSessionInvalidatedHook(func() { invalidated = true }))

	_, err := client.GetJobs(context.Background())
	if !errors.Is(err, domain.ErrSessionInvalidated) {
		t.Fatalf("expected ErrSessionInvalidated, got %v", err)
	}
	if jobsCalls != 1 {
		t.Fatalf("jobs endpoint hit %d times, want 1 (no retransmit after failed refresh)", jobsCalls)
	}
	if !creds.cleared {
		t.Fatalf("credentials must be purged after a failed refresh")
	}
	if !invalidated {
		t.Fatalf("session-invalidated hook must fire")
	}
}

func TestClient_SecondUnauthorizedEscalates(t *testing.T) {
	jobsCalls, refreshCalls := 0, 0
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		jobsCalls++
		writeBody(w, http.StatusUnauthorized, `{"success":false,"message":"nope"}`)
	})
	mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		writeBody(w, http.StatusOK, `{"data":{"access":"still-rejected"},"success":true}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &memCreds{access: "a", refresh: "r"}
	client := New(srv.URL, creds, zerolog.Nop())

	_, err := client.GetJobs(context.Background())
	if !errors.Is(err, domain.ErrSessionInvalidated) {
		t.Fatalf("expected ErrSessionInvalidated, got %v", err)
	}
	if jobsCalls != 2 {
		t.Fatalf("jobs endpoint hit %d times, want 2; a second 401 must not trigger another refresh", jobsCalls)
	}
	if refreshCalls != 1 {
		t.Fatalf("refresh endpoint hit %d times, want exactly 1", refreshCalls)
	}
	if !creds.cleared {
		t.Fatalf("credentials must be purged when the retry is also rejected")
	}
}

func TestClient_NonUnauthorizedFailureIsNotRetried(t *testing.T) {
	jobsCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/j9/", func(w http.ResponseWriter, r *http.Request) {
		jobsCalls++
		writeBody(w, http.StatusNotFound, `{"success":false,"message":"job not found"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &memCreds{access: "a", refresh: "r"}
	client := New(srv.URL, creds, zerolog.Nop())

	_, err := client.GetJobByID(context.Background(), "j9")
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "job not found" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if jobsCalls != 1 {
		t.Fatalf("endpoint hit %d times, want 1; only 401 enters the refresh stage", jobsCalls)
	}
	if creds.cleared {
		t.Fatalf("a 404 must not purge credentials")
	}
}

func TestClient_FailedEnvelopeWithOKStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/categories/", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"success":false,"message":"upstream degraded"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, &memCreds{access: "a"}, zerolog.Nop())

	_, err := client.GetCategories(context.Background())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError for success=false, got %v", err)
	}
	if apiErr.Message != "upstream degraded" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestClient_LoginDecodesAuthPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{
			"data": {
				"user": {"id":"c1","name":"Emily Rodriguez","email":"emily.rodriguez@email.com","role":"client","company":"Rodriguez Properties"},
				"access": "acc",
				"refresh": "ref"
			},
			"success": true
		}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, &memCreds{}, zerolog.Nop())

	result, err := client.Login(context.Background(), loginCreds())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken != "acc" || result.RefreshToken != "ref" {
		t.Fatalf("tokens not decoded: %+v", result)
	}
	c, ok := result.User.(*domain.Client)
	if !ok {
		t.Fatalf("expected client variant, got %T", result.User)
	}
	if c.Company != "Rodriguez Properties" {
		t.Fatalf("client fields lost: %+v", c)
	}
}

func TestClient_LoginRejectionDoesNotRefresh(t *testing.T) {
	refreshCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusUnauthorized, `{"success":false,"message":"invalid credentials"}`)
	})
	mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		writeBody(w, http.StatusOK, `{"data":{"access":"x"},"success":true}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, &memCreds{refresh: "r"}, zerolog.Nop())

	_, err := client.Login(context.Background(), loginCreds())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if refreshCalls != 0 {
		t.Fatalf("a rejected login must not enter the refresh stage")
	}
}

func loginCreds() ports.LoginCredentials {
	return ports.LoginCredentials{
		Email:    "emily.rodriguez@email.com",
		Password: "demo123",
		Role:     domain.RoleClient,
	}
}
