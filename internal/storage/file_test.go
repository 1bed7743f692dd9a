package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-tracker-backend/internal/model"
)

func newTestFile(t *testing.T) (*File, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFile(StaticPicker{Dir: dir, DefaultName: "tickets.json"}), dir
}

func sampleSnapshotForFile() *model.Snapshot {
	snap := SampleSnapshot()
	snap.LastModified = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap.LastModifiedBy = "tester"
	return snap
}

func TestFileIsSupported(t *testing.T) {
	f, _ := newTestFile(t)
	assert.True(t, f.IsSupported())

	unsupported := NewFile(StaticPicker{})
	assert.False(t, unsupported.IsSupported())

	assert.False(t, NewFile(nil).IsSupported())
}

func TestFileRequestReadMissingFileIsCancelled(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFile(t)

	handle, err := f.RequestRead(ctx)
	require.NoError(t, err)
	assert.Nil(t, handle, "no file on disk reads as a cancelled pick")
}

func TestFileRequestUnsupported(t *testing.T) {
	ctx := context.Background()
	f := NewFile(StaticPicker{})

	_, err := f.RequestRead(ctx)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = f.RequestWrite(ctx, "x.json")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFileWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFile(t)

	handle, err := f.RequestWrite(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.Equal(t, "tickets.json", handle.Name)

	snap := sampleSnapshotForFile()
	require.NoError(t, f.Write(ctx, handle, snap))

	// After the write the default file exists, so a read pick finds it.
	readHandle, err := f.RequestRead(ctx)
	require.NoError(t, err)
	require.NotNil(t, readHandle)

	loaded, err := f.Read(ctx, readHandle)
	require.NoError(t, err)
	assert.Len(t, loaded.Tickets, len(snap.Tickets))
	assert.Equal(t, snap.Tickets[0].ID, loaded.Tickets[0].ID)
	assert.Equal(t, snap.NextTicketNumber, loaded.NextTicketNumber)
	assert.Equal(t, "tester", loaded.LastModifiedBy)
}

func TestFileReadGarbageIsParseError(t *testing.T) {
	ctx := context.Background()
	f, dir := newTestFile(t)

	path := filepath.Join(dir, "tickets.json")
	require.NoError(t, os.WriteFile(path, []byte("this is not json"), 0o644))

	_, err := f.Read(ctx, &Handle{Path: path, Name: "tickets.json"})
	assert.ErrorIs(t, err, ErrParse)
}

func TestFileReadMissingIsIOError(t *testing.T) {
	ctx := context.Background()
	f, dir := newTestFile(t)

	_, err := f.Read(ctx, &Handle{Path: filepath.Join(dir, "absent.json"), Name: "absent.json"})
	assert.ErrorIs(t, err, ErrIO)
}

func TestFileWriteDeniedKeepsPreviousContents(t *testing.T) {
	ctx := context.Background()
	f, dir := newTestFile(t)

	handle, err := f.RequestWrite(ctx, "")
	require.NoError(t, err)
	require.NoError(t, f.Write(ctx, handle, sampleSnapshotForFile()))
	before, err := os.ReadFile(handle.Path)
	require.NoError(t, err)

	// A handle pointing into a directory that no longer exists fails
	// permission verification; the original file is untouched.
	gone := &Handle{Path: filepath.Join(dir, "missing", "tickets.json"), Name: "tickets.json"}
	err = f.Write(ctx, gone, sampleSnapshotForFile())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	after, err := os.ReadFile(handle.Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileVerifyPermission(t *testing.T) {
	f, dir := newTestFile(t)

	assert.False(t, f.VerifyPermission(nil))
	assert.False(t, f.VerifyPermission(&Handle{}))

	// New file in an existing directory: grant holds.
	assert.True(t, f.VerifyPermission(&Handle{Path: filepath.Join(dir, "new.json")}))

	// Existing file opened read-write: grant holds.
	path := filepath.Join(dir, "existing.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	assert.True(t, f.VerifyPermission(&Handle{Path: path}))

	// Directory gone: grant lost.
	assert.False(t, f.VerifyPermission(&Handle{Path: filepath.Join(dir, "nope", "x.json")}))
}

func TestStaticPickerWriteCreatesDir(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	f := NewFile(StaticPicker{Dir: dir})

	handle, err := f.RequestWrite(ctx, "out.json")
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.Equal(t, "out.json", handle.Name)

	require.NoError(t, f.Write(ctx, handle, sampleSnapshotForFile()))
	_, err = os.Stat(handle.Path)
	assert.NoError(t, err)
}
