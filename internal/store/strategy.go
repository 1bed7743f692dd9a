package store

import (
	"context"
	"fmt"
	"log"

	"ticket-tracker-backend/internal/notify"
	"ticket-tracker-backend/internal/storage"
)

// Backend identifies which durable backend is authoritative for writes.
type Backend string

const (
	// BackendDatabase is the default strategy: the local database holds the
	// authoritative copy.
	BackendDatabase Backend = "LOCAL_DB"
	// BackendFile is active only while a valid, permitted file handle is
	// held; the database then acts as the shadow copy.
	BackendFile Backend = "LOCAL_FILE"
)

// Backend returns the currently authoritative backend.
func (s *Store) Backend() Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend
}

// FileSupported reports whether the file backend is available on this
// runtime. Re-probed on every call; never cached across operations.
func (s *Store) FileSupported() bool {
	return s.file != nil && s.file.IsSupported()
}

// FileName returns the name of the active snapshot file, or "" outside the
// file strategy. For status display.
func (s *Store) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return ""
	}
	return s.handle.Name
}

// initStrategyLocked selects the boot storage strategy: if the file backend
// is supported and a remembered handle still holds write permission, the
// file strategy resumes; otherwise the database is authoritative. Returns
// whether the caller should start the auto-save timer (which must happen
// without s.mu held).
func (s *Store) initStrategyLocked(ctx context.Context) bool {
	s.backend = BackendDatabase
	s.handle = nil

	if !s.FileSupported() {
		s.emit("storage", notify.LevelInfo, "File storage not available, using local database")
		return false
	}

	handle, err := s.db.RecallHandle(ctx)
	if err != nil {
		log.Printf("Could not recall stored file handle: %v", err)
		return false
	}
	if handle == nil {
		return false
	}
	if !s.file.VerifyPermission(handle) {
		log.Printf("Stored file handle %s lost permission, forgetting it", handle.Path)
		if err := s.db.ForgetHandle(ctx); err != nil {
			log.Printf("Could not forget stale file handle: %v", err)
		}
		s.emit("storage", notify.LevelWarning, "Lost access to the previous data file, using local database")
		return false
	}

	s.backend = BackendFile
	s.handle = handle
	s.emit("storage", notify.LevelInfo, fmt.Sprintf("Resumed file storage on %s", handle.Name))
	return true
}

// OpenFile prompts for an existing snapshot file, loads it as the new active
// partition, and switches to the file strategy. A cancelled pick is a silent
// no-op.
func (s *Store) OpenFile(ctx context.Context) error {
	if !s.FileSupported() {
		return storage.ErrUnsupported
	}
	handle, err := s.file.RequestRead(ctx)
	if err != nil {
		return err
	}
	if handle == nil {
		return nil
	}

	snap, err := s.file.Read(ctx, handle)
	if err != nil {
		s.emit("open-file", notify.LevelError, fmt.Sprintf("Error handling file: %v", err))
		return err
	}
	if err := validateSnapshot(snap); err != nil {
		s.emit("open-file", notify.LevelError, fmt.Sprintf("Error handling file: %v", err))
		return err
	}

	s.mu.Lock()
	s.backend = BackendFile
	s.handle = handle
	if err := s.db.RememberHandle(ctx, *handle); err != nil {
		log.Printf("Could not remember file handle: %v", err)
	}
	// The database becomes the shadow copy of the file's contents.
	err = s.saveLocked(ctx, snap)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.autosave.Start()
	s.emit("open-file", notify.LevelSuccess, fmt.Sprintf("Data loaded from %s", handle.Name))
	return nil
}

// SaveToFile prompts for a file to create or overwrite, writes the current
// active partition into it, and switches to the file strategy. A cancelled
// pick is a silent no-op.
func (s *Store) SaveToFile(ctx context.Context, suggestedName string) error {
	if !s.FileSupported() {
		return storage.ErrUnsupported
	}
	handle, err := s.file.RequestWrite(ctx, suggestedName)
	if err != nil {
		return err
	}
	if handle == nil {
		return nil
	}

	s.mu.Lock()
	s.backend = BackendFile
	s.handle = handle
	if err := s.db.RememberHandle(ctx, *handle); err != nil {
		log.Printf("Could not remember file handle: %v", err)
	}
	err = s.saveLocked(ctx, s.activeLocked())
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.autosave.Start()
	s.emit("save-file", notify.LevelSuccess, fmt.Sprintf("Data saved to %s", handle.Name))
	return nil
}

// UseDatabase switches back to the database strategy and forgets the
// remembered file handle.
func (s *Store) UseDatabase(ctx context.Context) error {
	s.autosave.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = BackendDatabase
	s.handle = nil
	if err := s.db.ForgetHandle(ctx); err != nil {
		log.Printf("Could not forget file handle: %v", err)
	}
	s.emit("storage", notify.LevelInfo, "Using local database storage")
	return nil
}

// demoteLocked falls back to the database strategy after a file backend
// failure. The handle is dropped so all subsequent operations use the
// database until the user re-selects a file. Must be called with s.mu held;
// the auto-save timer is halted without waiting so the save path can invoke
// this from inside the timer goroutine.
func (s *Store) demoteLocked(ctx context.Context, cause error) {
	s.backend = BackendDatabase
	s.handle = nil
	s.autosave.halt()
	if err := s.db.ForgetHandle(ctx); err != nil {
		log.Printf("Could not forget file handle: %v", err)
	}
	s.emit("save", notify.LevelWarning,
		fmt.Sprintf("Could not write to the data file (%v); switched to local database storage", cause))
}
