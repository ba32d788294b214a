// ABOUTME: Two-tier token storage for the LeishVet CLI
// ABOUTME: Persistent tier in the XDG config dir, ephemeral tier in the runtime dir

package session

import (
	"os"
	"path/filepath"
	"strings"
)

const tokenFileName = "token"

// Store holds the bearer token in exactly one of two tiers: the persistent
// tier survives restarts (config dir), the ephemeral tier lives in the
// session-scoped runtime dir and is cleaned up with the login session.
type Store struct {
	persistentDir string
	ephemeralDir  string
}

// NewStore creates a token store with explicit tier directories
func NewStore(persistentDir, ephemeralDir string) *Store {
	return &Store{
		persistentDir: persistentDir,
		ephemeralDir:  ephemeralDir,
	}
}

// DefaultStore creates a token store using the XDG directories
func DefaultStore() *Store {
	return NewStore(DefaultConfigDir(), DefaultRuntimeDir())
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "leishvet")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "leishvet")
}

// DefaultRuntimeDir returns the session-scoped runtime directory.
// XDG_RUNTIME_DIR is wiped at end of the login session; the temp-dir
// fallback at least does not survive reboots.
func DefaultRuntimeDir() string {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "leishvet")
	}
	return filepath.Join(os.TempDir(), "leishvet")
}

func (s *Store) persistentFile() string {
	return filepath.Join(s.persistentDir, tokenFileName)
}

func (s *Store) ephemeralFile() string {
	return filepath.Join(s.ephemeralDir, tokenFileName)
}

// Save writes the token to the chosen tier and removes it from the other,
// so the token is never present in both tiers at once.
func (s *Store) Save(token string, persistent bool) error {
	target, other := s.ephemeralFile(), s.persistentFile()
	if persistent {
		target, other = s.persistentFile(), s.ephemeralFile()
	}

	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(token), 0600); err != nil {
		return err
	}
	if err := os.Remove(other); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Load returns the stored token, checking the persistent tier first.
// The second return is false when no tier holds a token.
func (s *Store) Load() (string, bool) {
	for _, path := range []string{s.persistentFile(), s.ephemeralFile()} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token, true
		}
	}
	return "", false
}

// Clear removes the token from both tiers. Idempotent.
func (s *Store) Clear() error {
	for _, path := range []string{s.persistentFile(), s.ephemeralFile()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
