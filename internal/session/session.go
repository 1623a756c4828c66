// Package session persists the authenticated user across runs.
//
// The session is the raw User object from the last successful login
// or registration, written as a YAML file in the data directory. Load
// trusts whatever is on disk; there is no token and no server-side
// revalidation on restore.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the user as the current session.
func (s *Store) Save(user *models.User) error {
	if user == nil || user.UserID == "" {
		return fmt.Errorf("session user cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load restores the saved session. Returns (nil, nil) when no session
// exists.
func (s *Store) Load() (*models.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var user models.User
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	if user.UserID == "" {
		return nil, fmt.Errorf("session file holds no user id")
	}

	return &user, nil
}

// Clear removes the saved session. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
