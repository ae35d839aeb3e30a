package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFile_RoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, ok := store.Get("missing"); ok {
		t.Fatalf("missing key must not resolve")
	}

	if err := store.Set("access_token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok := store.Get("access_token")
	if !ok || v != "abc" {
		t.Fatalf("got (%q, %v), want (abc, true)", v, ok)
	}

	if err := store.Set("access_token", "def"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := store.Get("access_token"); v != "def" {
		t.Fatalf("overwrite not visible, got %q", v)
	}

	if err := store.Delete("access_token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get("access_token"); ok {
		t.Fatalf("deleted key must not resolve")
	}
}

func TestFile_DeleteMissingIsNoError(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Delete("never-existed"); err != nil {
		t.Fatalf("deleting a missing key must be silent, got %v", err)
	}
}

func TestFile_KeysCannotEscapeDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Set("../outside", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file inside the store dir, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "..", "outside")); err == nil {
		t.Fatalf("key with path separators escaped the store directory")
	}

	if v, ok := store.Get("../outside"); !ok || v != "x" {
		t.Fatalf("sanitised key must still round-trip, got (%q, %v)", v, ok)
	}
}

func TestFile_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set("skilllink_user", `{"id":"c1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := reopened.Get("skilllink_user"); !ok || v != `{"id":"c1"}` {
		t.Fatalf("value lost across reopen, got (%q, %v)", v, ok)
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	store := NewMemory()

	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok := store.Get("k"); !ok || v != "v" {
		t.Fatalf("got (%q, %v)", v, ok)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get("k"); ok {
		t.Fatalf("deleted key must not resolve")
	}
}
