package store

import (
	"context"

	"ticket-tracker-backend/internal/model"
)

// SettingsUpdate is a partial settings update; nil fields are left unchanged.
// The ticket sequence counter is owned by the store and cannot be set here.
type SettingsUpdate struct {
	CompanyName  *string
	TicketPrefix *string
	AutoRefresh  *int
	MaxSystems   *int
	ArchiveOld   *bool
	ArchiveDays  *int
}

// GetSettings returns the current application settings from the cache.
func (s *Store) GetSettings() model.Settings {
	return s.GetAllData().Settings
}

// UpdateSettings applies a partial settings update and persists it.
func (s *Store) UpdateSettings(ctx context.Context, update SettingsUpdate) (*model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	settings := &data.Settings

	if update.CompanyName != nil {
		settings.CompanyName = *update.CompanyName
	}
	if update.TicketPrefix != nil {
		settings.TicketPrefix = *update.TicketPrefix
	}
	if update.AutoRefresh != nil {
		settings.AutoRefresh = *update.AutoRefresh
	}
	if update.MaxSystems != nil {
		settings.MaxSystems = *update.MaxSystems
	}
	if update.ArchiveOld != nil {
		settings.ArchiveOld = *update.ArchiveOld
	}
	if update.ArchiveDays != nil {
		settings.ArchiveDays = *update.ArchiveDays
	}

	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	updated := data.Settings
	return &updated, nil
}
