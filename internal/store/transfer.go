package store

import (
	"context"
	"encoding/json"
	"fmt"

	"ticket-tracker-backend/internal/model"
	"ticket-tracker-backend/internal/notify"
	"ticket-tracker-backend/internal/parse"
	"ticket-tracker-backend/internal/storage"
)

// ExportSnapshot serializes the active partition as indented JSON, the same
// document shape the file backend writes.
func (s *Store) ExportSnapshot() ([]byte, error) {
	raw, err := json.MarshalIndent(s.GetAllData(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export data: %w", err)
	}
	return raw, nil
}

// ExportArchive serializes the archive partition as indented JSON.
func (s *Store) ExportArchive() ([]byte, error) {
	s.mu.Lock()
	arch := s.archivedLocked()
	s.mu.Unlock()

	raw, err := json.MarshalIndent(arch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export archive: %w", err)
	}
	return raw, nil
}

// ImportSnapshot replaces the active partition with the decoded document.
// The document is validated before anything is touched; a bad payload leaves
// the current data fully intact. The ticket sequence counter is reconciled
// against the imported IDs so newly created tickets never collide with
// imported ones.
func (s *Store) ImportSnapshot(ctx context.Context, raw []byte) error {
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		wrapped := fmt.Errorf("decode import: %v: %w", err, storage.ErrParse)
		s.emit("import", notify.LevelError, fmt.Sprintf("Error importing data: %v", wrapped))
		return wrapped
	}
	if err := validateSnapshot(&snap); err != nil {
		s.emit("import", notify.LevelError, fmt.Sprintf("Error importing data: %v", err))
		return err
	}
	reconcileCounter(&snap)

	s.mu.Lock()
	err := s.saveLocked(ctx, &snap)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit("import", notify.LevelSuccess, "Data imported successfully")
	return nil
}

// ImportArchive replaces the archive partition with the decoded document.
// Every imported ticket is stored with its archived flag forced on.
func (s *Store) ImportArchive(ctx context.Context, raw []byte) error {
	var arch model.ArchiveSnapshot
	if err := json.Unmarshal(raw, &arch); err != nil {
		wrapped := fmt.Errorf("decode archive import: %v: %w", err, storage.ErrParse)
		s.emit("import", notify.LevelError, fmt.Sprintf("Error importing archive: %v", wrapped))
		return wrapped
	}
	if arch.Tickets == nil {
		wrapped := fmt.Errorf("archive document has no tickets collection: %w", storage.ErrParse)
		s.emit("import", notify.LevelError, fmt.Sprintf("Error importing archive: %v", wrapped))
		return wrapped
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.PersistArchived(ctx, &arch); err != nil {
		s.emit("import", notify.LevelError, fmt.Sprintf("Error importing archive: %v", err))
		return err
	}
	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	s.emit("import", notify.LevelSuccess, "Archive imported successfully")
	return nil
}

// validateSnapshot rejects documents that decoded but do not look like a data
// snapshot. Absent collections (as opposed to empty ones) mean the document
// is some other JSON entirely.
func validateSnapshot(snap *model.Snapshot) error {
	if snap == nil || snap.Tickets == nil || snap.Systems == nil {
		return fmt.Errorf("document is not a data snapshot: %w", storage.ErrParse)
	}
	for i, t := range snap.Tickets {
		if t.ID == "" {
			return fmt.Errorf("ticket at index %d has no id: %w", i, storage.ErrParse)
		}
	}
	if snap.Settings.ID == "" {
		snap.Settings = model.DefaultSettings()
	}
	return nil
}

// reconcileCounter bumps the sequence counter past the highest imported
// ticket ID so the next created ticket gets a fresh number.
func reconcileCounter(snap *model.Snapshot) {
	if snap.Settings.TicketPrefix == "" {
		snap.Settings.TicketPrefix = model.DefaultSettings().TicketPrefix
	}
	ids := make([]string, len(snap.Tickets))
	for i, t := range snap.Tickets {
		ids[i] = t.ID
	}
	if max := parse.MaxSeq(snap.Settings.TicketPrefix, ids); max >= snap.NextTicketNumber {
		snap.NextTicketNumber = max + 1
	}
	if snap.NextTicketNumber < snap.Settings.NextTicketNumber {
		snap.NextTicketNumber = snap.Settings.NextTicketNumber
	}
	if snap.NextTicketNumber <= 0 {
		snap.NextTicketNumber = model.DefaultSettings().NextTicketNumber
	}
}
