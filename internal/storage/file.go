package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ticket-tracker-backend/internal/model"
)

// Handle references a user-granted writable snapshot file.
type Handle struct {
	Path string
	Name string
}

// Picker obtains file handles from the user. A nil handle with a nil error
// means the user cancelled the prompt: not an error, and callers must treat
// it silently.
type Picker interface {
	// PickRead selects an existing snapshot file to open.
	PickRead(ctx context.Context) (*Handle, error)
	// PickWrite selects or creates a snapshot file to save into.
	PickWrite(ctx context.Context, suggestedName string) (*Handle, error)
	// Available reports whether this picker can produce handles at all.
	Available() bool
}

// StaticPicker is the default Picker: it resolves handles inside one
// configured directory instead of prompting interactively. An empty Dir
// behaves like a runtime without file storage support.
type StaticPicker struct {
	Dir         string
	DefaultName string
}

// Available probes whether the directory exists (or can be created) and is
// writable.
func (p StaticPicker) Available() bool {
	if p.Dir == "" {
		return false
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return false
	}
	probe, err := os.CreateTemp(p.Dir, ".probe-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}

// PickRead returns a handle to the default file if it exists; a missing file
// reads as a cancelled pick.
func (p StaticPicker) PickRead(_ context.Context) (*Handle, error) {
	if p.Dir == "" {
		return nil, nil
	}
	path := filepath.Join(p.Dir, p.defaultName())
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w: %v", path, ErrIO, err)
	}
	return &Handle{Path: path, Name: filepath.Base(path)}, nil
}

// PickWrite returns a handle for the suggested name inside the directory,
// creating the directory if needed.
func (p StaticPicker) PickWrite(_ context.Context, suggestedName string) (*Handle, error) {
	if p.Dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w: %v", p.Dir, ErrIO, err)
	}
	if suggestedName == "" {
		suggestedName = p.defaultName()
	}
	path := filepath.Join(p.Dir, suggestedName)
	return &Handle{Path: path, Name: suggestedName}, nil
}

func (p StaticPicker) defaultName() string {
	if p.DefaultName != "" {
		return p.DefaultName
	}
	return "trouble_ticket_data.json"
}

// File is the local-file backend driver. It reads and writes one
// pretty-printed JSON snapshot document through a granted handle. Writes are
// committed atomically: a failure leaves the previous on-disk content
// intact.
type File struct {
	picker Picker
}

// NewFile creates a file driver using the given picker.
func NewFile(picker Picker) *File {
	return &File{picker: picker}
}

// IsSupported is the runtime capability probe. It must be re-checked at
// startup and never assumed true.
func (f *File) IsSupported() bool {
	return f.picker != nil && f.picker.Available()
}

// RequestRead prompts for an existing file. A nil handle means the user
// cancelled.
func (f *File) RequestRead(ctx context.Context) (*Handle, error) {
	if !f.IsSupported() {
		return nil, ErrUnsupported
	}
	return f.picker.PickRead(ctx)
}

// RequestWrite prompts for a file to save into. A nil handle means the user
// cancelled.
func (f *File) RequestWrite(ctx context.Context, suggestedName string) (*Handle, error) {
	if !f.IsSupported() {
		return nil, ErrUnsupported
	}
	return f.picker.PickWrite(ctx, suggestedName)
}

// VerifyPermission reports whether the handle currently grants read-write
// access. Permission can be revoked between operations, so this runs before
// every write.
func (f *File) VerifyPermission(h *Handle) bool {
	if h == nil || h.Path == "" {
		return false
	}
	if _, err := os.Stat(h.Path); err == nil {
		file, err := os.OpenFile(h.Path, os.O_RDWR, 0o644)
		if err != nil {
			return false
		}
		file.Close()
		return true
	}
	// The file does not exist yet; the grant holds if its directory accepts
	// a new file.
	probe, err := os.CreateTemp(filepath.Dir(h.Path), ".probe-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}

// Read parses the snapshot document the handle points at.
func (f *File) Read(_ context.Context, h *Handle) (*model.Snapshot, error) {
	if h == nil {
		return nil, fmt.Errorf("read: nil handle: %w", ErrIO)
	}
	raw, err := os.ReadFile(h.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", h.Path, ErrIO, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", h.Path, ErrParse, err)
	}
	return &snap, nil
}

// Write serializes the snapshot as pretty-printed JSON and commits it to the
// handle. The document is staged in a temp file and renamed into place, so a
// failed write never truncates the previous contents.
func (f *File) Write(_ context.Context, h *Handle, snap *model.Snapshot) error {
	if h == nil {
		return fmt.Errorf("write: nil handle: %w", ErrIO)
	}
	if !f.VerifyPermission(h) {
		return fmt.Errorf("write %s: %w", h.Path, ErrPermissionDenied)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w: %v", ErrIO, err)
	}
	return commit(h.Path, raw)
}

func commit(path string, raw []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("stage %s: %w: %v", path, ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w: %v", path, ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w: %v", path, ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit %s: %w: %v", path, ErrIO, err)
	}
	return nil
}
