// Package memory provides an in-memory working-calendar service, suitable
// for single-process deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clinova/taskcal/workcal"
)

// Store implements workcal.Service over an in-process map of per-clinic
// settings.
type Store struct {
	mu       sync.RWMutex
	settings map[string]*workcal.Settings
}

// New creates an empty store.
func New() *Store {
	return &Store{settings: make(map[string]*workcal.Settings)}
}

// SetSettings installs or replaces a clinic's policy. The settings are
// copied, so later mutation by the caller has no effect.
func (s *Store) SetSettings(clinicID string, settings *workcal.Settings) {
	cp := &workcal.Settings{
		WeekendsAreWorkdays: settings.WeekendsAreWorkdays,
		Holidays:            append([]time.Time(nil), settings.Holidays...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[clinicID] = cp
}

// SetSettingsXML installs a clinic's policy from a settings document.
func (s *Store) SetSettingsXML(data []byte) error {
	clinicID, settings, err := workcal.ParseSettingsXML(data)
	if err != nil {
		return err
	}
	s.SetSettings(clinicID, settings)
	return nil
}

// GetSettings implements workcal.Service.
func (s *Store) GetSettings(_ context.Context, clinicID string) (*workcal.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.settings[clinicID]
	if !ok {
		return nil, &workcal.Error{Type: workcal.ErrNotFound, Message: "no working calendar for clinic " + clinicID}
	}
	return &workcal.Settings{
		WeekendsAreWorkdays: settings.WeekendsAreWorkdays,
		Holidays:            append([]time.Time(nil), settings.Holidays...),
	}, nil
}

// IsWorkingDay implements workcal.Service.
func (s *Store) IsWorkingDay(ctx context.Context, clinicID string, date time.Time) (bool, error) {
	settings, err := s.GetSettings(ctx, clinicID)
	if err != nil {
		return false, err
	}
	return settings.WorkingDay(date), nil
}
