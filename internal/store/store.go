package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ticket-tracker-backend/internal/model"
	"ticket-tracker-backend/internal/notify"
	"ticket-tracker-backend/internal/storage"
)

// Cache keys for the two partition snapshots.
const (
	cacheKeyActive   = "active"
	cacheKeyArchived = "archived"
)

// Store owns the in-memory data cache and mediates every read and write
// between collaborators (the UI layer) and the durable backends. It is the
// single composition point for the storage strategy: which backend is
// authoritative, the remembered file handle, and the auto-save timer.
//
// Reads are served synchronously from the cache; every mutating operation
// persists through the active strategy and then refreshes the cache before
// returning.
type Store struct {
	mu sync.Mutex

	db       *storage.Database
	file     *storage.File
	notifier *notify.Notifier
	snaps    *cache.Cache
	autosave *autosaver

	backend     Backend
	handle      *storage.Handle
	currentUser string
}

// NewStore wires a store from its drivers. autoSaveInterval governs the
// recurring file re-persist while the file backend is active.
func NewStore(db *storage.Database, file *storage.File, notifier *notify.Notifier, autoSaveInterval time.Duration) *Store {
	s := &Store{
		db:          db,
		file:        file,
		notifier:    notifier,
		snaps:       cache.New(cache.NoExpiration, 0),
		backend:     BackendDatabase,
		currentUser: "System",
	}
	s.autosave = newAutosaver(autoSaveInterval, s.autoSaveTick)
	return s
}

// Open prepares the store for use: seeds an empty database with sample data,
// loads both partitions into the cache, and selects the storage strategy
// (restoring a remembered file handle when its permission still holds).
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	empty, err := s.db.IsEmpty(ctx)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("check database: %w", err)
	}
	if empty {
		log.Println("Database is empty, initializing with sample data...")
		if err := s.db.Seed(ctx); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("seed database: %w", err)
		}
	}
	if err := s.refreshLocked(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	startTimer := s.initStrategyLocked(ctx)
	s.mu.Unlock()

	if startTimer {
		s.autosave.Start()
	}
	return nil
}

// Close stops the auto-save timer and flushes the current cache through the
// active strategy one last time.
func (s *Store) Close(ctx context.Context) error {
	s.autosave.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, s.activeLocked())
}

// SetCurrentUser records the label stamped onto history entries and
// last-modified metadata. Attribution only, not authentication.
func (s *Store) SetCurrentUser(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if label == "" {
		label = "System"
	}
	s.currentUser = label
}

// Subscribe registers an observer for store events.
func (s *Store) Subscribe(sub notify.Subscriber) {
	if s.notifier != nil {
		s.notifier.Subscribe(sub)
	}
}

// GetAllData returns the cached active-partition snapshot. Falls back to an
// empty default structure if the cache was never populated.
func (s *Store) GetAllData() *model.Snapshot {
	if v, found := s.snaps.Get(cacheKeyActive); found {
		return v.(*model.Snapshot).Clone()
	}
	return model.EmptySnapshot()
}

// SaveAllData replaces the active partition with the given snapshot via the
// active storage strategy.
func (s *Store) SaveAllData(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, snap.Clone())
}

// ResetData destroys all stored data, reseeds the sample dataset, and
// refreshes the cache.
func (s *Store) ResetData(ctx context.Context) error {
	s.autosave.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Reset(ctx); err != nil {
		s.emit("reset", notify.LevelError, fmt.Sprintf("Error resetting data: %v", err))
		return err
	}
	s.backend = BackendDatabase
	s.handle = nil
	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	s.emit("reset", notify.LevelSuccess, "Application data has been reset")
	return nil
}

// LastModified reports the active partition's last-modified metadata for
// status display.
func (s *Store) LastModified() (time.Time, string) {
	snap := s.GetAllData()
	return snap.LastModified, snap.LastModifiedBy
}

// refreshLocked re-pulls both partition snapshots into the cache. The
// database driver is always the read source: while the file backend is
// authoritative every save shadow-writes the database, so the two stay in
// step.
func (s *Store) refreshLocked(ctx context.Context) error {
	snap, err := s.db.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh active partition: %w", err)
	}
	arch, err := s.db.LoadArchived(ctx)
	if err != nil {
		return fmt.Errorf("refresh archive partition: %w", err)
	}
	s.snaps.Set(cacheKeyActive, snap, cache.NoExpiration)
	s.snaps.Set(cacheKeyArchived, arch, cache.NoExpiration)
	return nil
}

// activeLocked returns a mutable copy of the cached active snapshot.
func (s *Store) activeLocked() *model.Snapshot {
	if v, found := s.snaps.Get(cacheKeyActive); found {
		return v.(*model.Snapshot).Clone()
	}
	return model.EmptySnapshot()
}

// archivedLocked returns a mutable copy of the cached archive snapshot.
func (s *Store) archivedLocked() *model.ArchiveSnapshot {
	if v, found := s.snaps.Get(cacheKeyArchived); found {
		return v.(*model.ArchiveSnapshot).Clone()
	}
	return &model.ArchiveSnapshot{Tickets: []model.Ticket{}}
}

// saveLocked stamps metadata and writes the snapshot through the active
// strategy. While the file backend is authoritative the database receives a
// shadow-write on every save; a file failure demotes the strategy to the
// database backend (with a user-visible warning) and the database write
// still goes through as the safety net. An error is returned only when the
// database write itself fails.
func (s *Store) saveLocked(ctx context.Context, snap *model.Snapshot) error {
	now := time.Now().UTC()
	snap.LastModified = now
	snap.LastModifiedBy = s.currentUser
	if snap.NextTicketNumber <= 0 {
		snap.NextTicketNumber = snap.Settings.NextTicketNumber
	}
	snap.Settings.NextTicketNumber = snap.NextTicketNumber
	snap.Settings.LastModified = now
	snap.Settings.LastModifiedBy = s.currentUser

	if s.backend == BackendFile {
		if err := s.file.Write(ctx, s.handle, snap); err != nil {
			log.Printf("File backend write failed, falling back to database: %v", err)
			s.demoteLocked(ctx, err)
		}
	}

	if err := s.db.Persist(ctx, snap); err != nil {
		s.emit("save", notify.LevelError, fmt.Sprintf("Error saving data: %v", err))
		return err
	}
	return s.refreshLocked(ctx)
}

// autoSaveTick is the auto-save timer callback. It re-persists the current
// cache through the regular save path; outside the file strategy it is a
// no-op.
func (s *Store) autoSaveTick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend != BackendFile {
		return nil
	}
	return s.saveLocked(ctx, s.activeLocked())
}

func (s *Store) emit(op string, level notify.Level, message string) {
	if s.notifier != nil {
		s.notifier.Publish(notify.Event{Op: op, Level: level, Message: message})
	}
}

// newEntityID generates an opaque identifier with an entity-kind prefix.
func newEntityID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}
