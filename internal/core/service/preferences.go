package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.Preferences = (*PreferenceStore)(nil)

type PreferenceStore struct {
	persister port.Persister

	mu      sync.Mutex
	prefs   domain.Preferences
	ready   bool
	unsaved bool
}

func NewPreferenceStore(
	ctx context.Context, persister port.Persister,
) *PreferenceStore {
	const op = "NewPreferenceStore"

	if persister == nil {
		panic(fmt.Errorf("%s: persister is nil", op)) // develop mistake
	}

	return &PreferenceStore{
		persister: persister,
		prefs: load(
			ctx, persister, port.PreferencesRecord, domain.DefaultPreferences(),
		),
		ready: true,
	}
}

func (s *PreferenceStore) Preferences() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *PreferenceStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *PreferenceStore) Unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved
}

// UpdatePreferences merges patch into the record as is. Out of range
// theme variants are kept; consumers wrap them.
func (s *PreferenceStore) UpdatePreferences(
	ctx context.Context, patch domain.PreferencesPatch,
) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = patch.Apply(s.prefs)
	s.save(ctx)
	return s.prefs
}

// CycleTheme switches to the next presentation variant.
func (s *PreferenceStore) CycleTheme(ctx context.Context) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.WrapThemeVariant(s.prefs.ThemeVariant + 1)
	s.prefs = domain.PreferencesPatch{ThemeVariant: &next}.Apply(s.prefs)
	s.save(ctx)
	return s.prefs
}

func (s *PreferenceStore) save(ctx context.Context) {
	const op = "PreferenceStore.save"

	err := s.persister.Save(ctx, port.PreferencesRecord, s.prefs)
	s.unsaved = err != nil
	if err != nil {
		slog.Warn("preferences may not be saved", "op", op, "err", err)
	}
}
