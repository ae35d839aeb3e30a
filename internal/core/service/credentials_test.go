package service

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	kv := newStubKV()
	creds := NewCredentialStore(kv, zerolog.Nop())

	if err := creds.SetTokens("acc", "ref"); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if creds.AccessToken() != "acc" || creds.RefreshToken() != "ref" {
		t.Fatalf("tokens not round-tripped")
	}

	if err := creds.StoreAccessToken("acc2"); err != nil {
		t.Fatalf("store access token: %v", err)
	}
	if creds.AccessToken() != "acc2" {
		t.Fatalf("access token not replaced")
	}
	if creds.RefreshToken() != "ref" {
		t.Fatalf("refresh token must survive an access-only update")
	}
}

func TestCredentialStore_ClearRemovesAllKeys(t *testing.T) {
	kv := newStubKV()
	creds := NewCredentialStore(kv, zerolog.Nop())

	if err := creds.SetTokens("acc", "ref"); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := creds.SetUser(&domain.Worker{Profile: domain.Profile{ID: "w1", Name: "Marcus"}}); err != nil {
		t.Fatalf("set user: %v", err)
	}

	creds.Clear()
	if len(kv.data) != 0 {
		t.Fatalf("clear must remove all credential keys, left %v", kv.data)
	}
	if creds.StoredUser() != nil {
		t.Fatalf("user mirror must be gone after clear")
	}
}

func TestCredentialStore_CorruptMirrorReadsAsAbsent(t *testing.T) {
	kv := newStubKV()
	creds := NewCredentialStore(kv, zerolog.Nop())

	if err := kv.Set("skilllink_user", "{broken"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if creds.StoredUser() != nil {
		t.Fatalf("unreadable mirror must read as absent, not error")
	}
}

func TestCredentialStore_UserMirrorPreservesVariant(t *testing.T) {
	kv := newStubKV()
	creds := NewCredentialStore(kv, zerolog.Nop())

	worker := &domain.Worker{
		Profile:    domain.Profile{ID: "w1", Name: "Marcus Johnson"},
		Category:   "Carpenter",
		HourlyRate: 45,
	}
	if err := creds.SetUser(worker); err != nil {
		t.Fatalf("set user: %v", err)
	}

	stored := creds.StoredUser()
	w, ok := stored.(*domain.Worker)
	if !ok {
		t.Fatalf("expected worker variant, got %T", stored)
	}
	if w.Category != "Carpenter" || w.HourlyRate != 45 {
		t.Fatalf("worker fields lost in mirror: %+v", w)
	}
}
