// ABOUTME: Tests for two-tier token storage
// ABOUTME: Verifies tier exclusivity, load order and idempotent clearing

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "config"), filepath.Join(t.TempDir(), "runtime"))
}

func tierHoldsToken(t *testing.T, dir string) bool {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	if os.IsNotExist(err) {
		return false
	}
	if err != nil {
		t.Fatalf("failed to read tier: %v", err)
	}
	return len(data) > 0
}

func TestStore_SavePersistent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("abc", true); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !tierHoldsToken(t, s.persistentDir) {
		t.Error("expected persistent tier to hold the token")
	}
	if tierHoldsToken(t, s.ephemeralDir) {
		t.Error("expected ephemeral tier to be empty")
	}
}

func TestStore_SaveEphemeral(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("abc", false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if tierHoldsToken(t, s.persistentDir) {
		t.Error("expected persistent tier to be empty")
	}
	if !tierHoldsToken(t, s.ephemeralDir) {
		t.Error("expected ephemeral tier to hold the token")
	}
}

func TestStore_TierExclusivity(t *testing.T) {
	s := newTestStore(t)

	// Any sequence of saves must leave at most one tier populated
	sequence := []bool{true, false, false, true, false}
	for i, persistent := range sequence {
		if err := s.Save("token", persistent); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
		p := tierHoldsToken(t, s.persistentDir)
		e := tierHoldsToken(t, s.ephemeralDir)
		if p && e {
			t.Fatalf("after save %d both tiers hold a token", i)
		}
		if p != persistent || e == persistent {
			t.Fatalf("after save %d (persistent=%t): persistent=%t ephemeral=%t", i, persistent, p, e)
		}
	}
}

func TestStore_LoadChecksPersistentFirst(t *testing.T) {
	s := newTestStore(t)

	// Write both tiers directly to simulate a corrupted state
	for _, dir := range []string{s.persistentDir, s.ephemeralDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(s.persistentDir, tokenFileName), []byte("persistent-token"), 0600)
	os.WriteFile(filepath.Join(s.ephemeralDir, tokenFileName), []byte("ephemeral-token"), 0600)

	token, ok := s.Load()
	if !ok {
		t.Fatal("expected a token")
	}
	if token != "persistent-token" {
		t.Errorf("expected persistent tier to win, got %q", token)
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	s := newTestStore(t)

	if token, ok := s.Load(); ok {
		t.Errorf("expected no token, got %q", token)
	}
}

func TestStore_LoadTrimsWhitespace(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.persistentDir, 0700); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(s.persistentDir, tokenFileName), []byte("abc\n"), 0600)

	token, ok := s.Load()
	if !ok || token != "abc" {
		t.Errorf("expected trimmed token abc, got %q (ok=%t)", token, ok)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("abc", true); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := s.Load(); ok {
		t.Error("expected no token after Clear")
	}

	// Clearing an already-empty store is fine
	if err := s.Clear(); err != nil {
		t.Errorf("expected idempotent Clear, got %v", err)
	}
}

func TestStore_TokenFilePermissions(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("abc", true); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(s.persistentDir, tokenFileName))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected token file mode 0600, got %o", perm)
	}
}
