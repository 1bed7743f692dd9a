package store

import (
	"context"
	"fmt"
	"time"

	"ticket-tracker-backend/internal/model"
	"ticket-tracker-backend/internal/notify"
)

// ArchiveFilter selects archived tickets; the semantics mirror TicketFilter.
type ArchiveFilter struct {
	Status   string
	Priority string
	System   string
	Search   string
}

// ArchiveResult reports the outcome of an auto-archive sweep.
type ArchiveResult struct {
	Success       bool   `json:"success"`
	ArchivedCount int    `json:"archivedCount"`
	Message       string `json:"message"`
}

// GetArchivedTickets returns all archived tickets from the cache.
func (s *Store) GetArchivedTickets() []model.Ticket {
	s.mu.Lock()
	arch := s.archivedLocked()
	s.mu.Unlock()
	return arch.Tickets
}

// SearchArchived filters the archive partition in-memory.
func (s *Store) SearchArchived(filter ArchiveFilter) []model.Ticket {
	return matchTickets(s.GetArchivedTickets(), filter.Status, filter.Priority, filter.System, filter.Search)
}

// ArchiveTicket moves one ticket from the active partition to the archive.
// The move is transactional: the ticket either ends up in exactly one
// partition or the operation fails with both partitions unchanged.
func (s *Store) ArchiveTicket(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.ArchiveOne(ctx, id); err != nil {
		s.emit("archive", notify.LevelError, fmt.Sprintf("Error archiving ticket %s: %v", id, err))
		return err
	}
	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	s.syncFileLocked(ctx)
	s.emit("archive", notify.LevelSuccess, fmt.Sprintf("Ticket %s archived", id))
	return nil
}

// RestoreTicket moves one ticket from the archive back to the active
// partition, clearing its archived flag. Transactional like ArchiveTicket.
func (s *Store) RestoreTicket(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.RestoreOne(ctx, id); err != nil {
		s.emit("restore", notify.LevelError, fmt.Sprintf("Error restoring ticket %s: %v", id, err))
		return err
	}
	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	s.syncFileLocked(ctx)
	s.emit("restore", notify.LevelSuccess, fmt.Sprintf("Ticket %s restored from archive", id))
	return nil
}

// RunAutoArchive archives every resolved ticket whose resolution time is
// older than the configured retention window. Tickets without a recorded
// resolution time are never auto-archived, whatever their age. Disabled
// sweeps and empty sweeps both succeed with an explanatory message.
func (s *Store) RunAutoArchive(ctx context.Context) (*ArchiveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	if !data.Settings.ArchiveOld {
		return &ArchiveResult{Success: true, ArchivedCount: 0, Message: "Auto-archive disabled in settings"}, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -data.Settings.ArchiveDays)
	var ids []string
	for _, t := range data.Tickets {
		if t.Status != model.StatusResolved && t.Status != model.StatusClosed {
			continue
		}
		if t.ResolvedAt != nil && t.ResolvedAt.Before(cutoff) {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return &ArchiveResult{Success: true, ArchivedCount: 0, Message: "No tickets to archive"}, nil
	}

	if err := s.db.ArchiveBatch(ctx, ids); err != nil {
		s.emit("auto-archive", notify.LevelError, fmt.Sprintf("Error running auto-archive: %v", err))
		return nil, err
	}
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	s.syncFileLocked(ctx)

	message := fmt.Sprintf("%d tickets archived successfully", len(ids))
	s.emit("auto-archive", notify.LevelSuccess, message)
	return &ArchiveResult{Success: true, ArchivedCount: len(ids), Message: message}, nil
}

// syncFileLocked re-writes the snapshot file after an archive move so the
// file reflects the new active partition. File trouble demotes the strategy;
// the database copy is already committed at this point.
func (s *Store) syncFileLocked(ctx context.Context) {
	if s.backend != BackendFile {
		return
	}
	if err := s.file.Write(ctx, s.handle, s.activeLocked()); err != nil {
		s.demoteLocked(ctx, err)
	}
}
