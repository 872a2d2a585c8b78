// Package session keeps the signed-in user and UI preferences in the store.
// Credentials are not checked here: SignIn receives an already identified
// user.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

const authenticatedValue = "true"

var (
	ErrSignedOut    = errors.New("no user signed in")
	ErrInvalidTheme = errors.New("invalid theme")
)

// WorkflowClearer removes every stored workflow and its history.
type WorkflowClearer interface {
	ClearAll(ctx context.Context) error
}

type Session struct {
	store     persistence.Store
	workflows WorkflowClearer
	logger    *slog.Logger
}

func New(store persistence.Store, workflows WorkflowClearer, logger *slog.Logger) *Session {
	return &Session{
		store:     store,
		workflows: workflows,
		logger:    logger.With("module", "session"),
	}
}

// SignIn records user as the signed-in user.
func (s *Session) SignIn(ctx context.Context, user models.User) error {
	err := s.store.Set(ctx, persistence.KeyIsAuthenticated, []byte(authenticatedValue))
	if err != nil {
		return fmt.Errorf("failed to store authentication flag: %w", err)
	}

	err = persistence.SaveValue(ctx, s.store, persistence.KeyUser, user)
	if err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	return nil
}

// Current returns the signed-in user. A stored user that cannot be decoded
// signs the session out and reports ErrSignedOut.
func (s *Session) Current(ctx context.Context) (*models.User, error) {
	flag, err := s.store.Get(ctx, persistence.KeyIsAuthenticated)
	if err != nil {
		if persistence.IsKeyNotFound(err) {
			return nil, ErrSignedOut
		}

		return nil, err
	}

	if string(flag) != authenticatedValue {
		return nil, ErrSignedOut
	}

	raw, err := s.store.Get(ctx, persistence.KeyUser)
	if err != nil {
		if persistence.IsKeyNotFound(err) {
			return nil, ErrSignedOut
		}

		return nil, err
	}

	var user models.User

	err = json.Unmarshal(raw, &user)
	if err != nil || user.Email == "" {
		s.logger.WarnContext(ctx, "Discarding invalid session user", "error", err)
		s.clearCredentials(ctx)

		return nil, ErrSignedOut
	}

	return &user, nil
}

// SignOut forgets the user and clears every workflow with its history.
func (s *Session) SignOut(ctx context.Context) error {
	err := errors.Join(
		s.store.Remove(ctx, persistence.KeyIsAuthenticated),
		s.store.Remove(ctx, persistence.KeyUser),
	)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	err = s.workflows.ClearAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear workflows on sign out: %w", err)
	}

	return nil
}

// Theme returns the stored theme, light when unset or unrecognized.
func (s *Session) Theme(ctx context.Context) models.Theme {
	raw, err := s.store.Get(ctx, persistence.KeyTheme)
	if err != nil {
		if !persistence.IsKeyNotFound(err) {
			s.logger.WarnContext(ctx, "Failed to read theme", "error", err)
		}

		return models.ThemeLight
	}

	theme := models.Theme(raw)
	if !theme.Valid() {
		return models.ThemeLight
	}

	return theme
}

func (s *Session) SetTheme(ctx context.Context, theme models.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}

	return s.store.Set(ctx, persistence.KeyTheme, []byte(theme))
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Session) ToggleTheme(ctx context.Context) (models.Theme, error) {
	next := models.ThemeDark
	if s.Theme(ctx) == models.ThemeDark {
		next = models.ThemeLight
	}

	return next, s.SetTheme(ctx, next)
}

func (s *Session) clearCredentials(ctx context.Context) {
	for _, key := range []string{persistence.KeyIsAuthenticated, persistence.KeyUser} {
		err := s.store.Remove(ctx, key)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to clear session key", "key", key, "error", err)
		}
	}
}
