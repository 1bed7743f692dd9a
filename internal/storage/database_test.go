package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ticket-tracker-backend/config"
	"ticket-tracker-backend/internal/db"
	"ticket-tracker-backend/internal/model"
)

// newTestDB opens a migrated sqlite database in a per-test temp directory.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.DatabaseConfig{DSN: filepath.Join(t.TempDir(), "test.db")}
	gormDB, err := db.Init(&cfg)
	require.NoError(t, err)
	return gormDB
}

func newTestDatabase(t *testing.T) *Database {
	return NewDatabase(newTestDB(t))
}

func TestDatabaseIsEmptyThenSeed(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	empty, err := d.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, d.Seed(ctx))

	empty, err = d.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)

	snap, err := d.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Tickets, 3)
	assert.Len(t, snap.Systems, 5)
	assert.Len(t, snap.Watchstations, 2)
	assert.Len(t, snap.Circuits, 3)
	assert.Len(t, snap.Users, 3)
	assert.Equal(t, "TKT", snap.Settings.TicketPrefix)
	assert.Equal(t, 1004, snap.NextTicketNumber)
}

func TestDatabasePersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	now := time.Now().UTC().Truncate(time.Second)
	resolved := now.Add(-time.Hour)
	snap := &model.Snapshot{
		Tickets: []model.Ticket{
			{
				ID:         "TKT-2001",
				Title:      "Router flapping",
				Priority:   model.PriorityHigh,
				System:     "sysA",
				Status:     model.StatusResolved,
				CreatedAt:  now.Add(-2 * time.Hour),
				UpdatedAt:  now,
				ResolvedAt: &resolved,
				History: []model.HistoryEntry{
					{Action: "Ticket Created", Timestamp: now.Add(-2 * time.Hour), User: "System"},
				},
			},
		},
		Systems:          []model.System{{ID: "sysA", Name: "Core Router", Status: model.SystemDegraded}},
		Watchstations:    []model.Watchstation{{ID: "w1", Name: "NOC", Systems: []string{"sysA"}}},
		Circuits:         []model.Circuit{{ID: "c1", Designation: "WAN", Status: model.SystemOperational, System: "sysA"}},
		Users:            []model.User{{ID: "u1", Username: "admin", Role: model.RoleAdmin}},
		Settings:         model.DefaultSettings(),
		NextTicketNumber: 2002,
		LastModified:     now,
		LastModifiedBy:   "tester",
	}

	require.NoError(t, d.Persist(ctx, snap))

	loaded, err := d.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Tickets, 1)
	got := loaded.Tickets[0]
	assert.Equal(t, "TKT-2001", got.ID)
	assert.Equal(t, model.StatusResolved, got.Status)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, got.ResolvedAt.Equal(resolved))
	require.Len(t, got.History, 1)
	assert.Equal(t, "Ticket Created", got.History[0].Action)
	assert.Equal(t, 2002, loaded.NextTicketNumber)
	assert.Equal(t, "tester", loaded.LastModifiedBy)

	// Persist is clear-then-insert: a second persist must replace, not append.
	require.NoError(t, d.Persist(ctx, snap))
	loaded, err = d.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Tickets, 1)
	assert.Len(t, loaded.Systems, 1)
}

func TestDatabaseLoadAllDefaultsSettings(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	snap, err := d.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SettingsID, snap.Settings.ID)
	assert.Equal(t, "TKT", snap.Settings.TicketPrefix)
	assert.Equal(t, 1001, snap.NextTicketNumber)
}

func TestDatabaseArchiveAndRestore(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)
	require.NoError(t, d.Seed(ctx))

	require.NoError(t, d.ArchiveOne(ctx, "TKT-1002"))

	snap, err := d.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Tickets, 2)
	for _, ticket := range snap.Tickets {
		assert.NotEqual(t, "TKT-1002", ticket.ID)
	}

	arch, err := d.LoadArchived(ctx)
	require.NoError(t, err)
	require.Len(t, arch.Tickets, 1)
	archived := arch.Tickets[0]
	assert.Equal(t, "TKT-1002", archived.ID)
	assert.True(t, archived.IsArchived)

	// Restore must produce a ticket equal to the original except the flag.
	require.NoError(t, d.RestoreOne(ctx, "TKT-1002"))

	snap, err = d.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Tickets, 3)
	var restored *model.Ticket
	for i := range snap.Tickets {
		if snap.Tickets[i].ID == "TKT-1002" {
			restored = &snap.Tickets[i]
		}
	}
	require.NotNil(t, restored)
	assert.False(t, restored.IsArchived)
	assert.Equal(t, model.StatusResolved, restored.Status)
	require.NotNil(t, restored.ResolvedAt)

	arch, err = d.LoadArchived(ctx)
	require.NoError(t, err)
	assert.Empty(t, arch.Tickets)
}

func TestDatabaseArchiveMissingTicket(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)
	require.NoError(t, d.Seed(ctx))

	err := d.ArchiveOne(ctx, "TKT-9999")
	assert.ErrorIs(t, err, ErrNotFound)

	// Both partitions must be unchanged after the failure.
	snap, lerr := d.LoadAll(ctx)
	require.NoError(t, lerr)
	assert.Len(t, snap.Tickets, 3)
	arch, lerr := d.LoadArchived(ctx)
	require.NoError(t, lerr)
	assert.Empty(t, arch.Tickets)
}

func TestDatabaseRestoreMissingTicket(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)
	require.NoError(t, d.Seed(ctx))

	err := d.RestoreOne(ctx, "TKT-9999")
	assert.ErrorIs(t, err, ErrNotFound)

	snap, lerr := d.LoadAll(ctx)
	require.NoError(t, lerr)
	assert.Len(t, snap.Tickets, 3)
}

func TestDatabaseArchiveBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)
	require.NoError(t, d.Seed(ctx))

	// One bad ID fails the whole batch.
	err := d.ArchiveBatch(ctx, []string{"TKT-1001", "TKT-9999"})
	assert.ErrorIs(t, err, ErrNotFound)

	snap, lerr := d.LoadAll(ctx)
	require.NoError(t, lerr)
	assert.Len(t, snap.Tickets, 3)
	arch, lerr := d.LoadArchived(ctx)
	require.NoError(t, lerr)
	assert.Empty(t, arch.Tickets)

	require.NoError(t, d.ArchiveBatch(ctx, []string{"TKT-1001", "TKT-1002"}))
	snap, lerr = d.LoadAll(ctx)
	require.NoError(t, lerr)
	assert.Len(t, snap.Tickets, 1)
	arch, lerr = d.LoadArchived(ctx)
	require.NoError(t, lerr)
	assert.Len(t, arch.Tickets, 2)
}

func TestDatabasePersistArchivedForcesFlag(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	arch := &model.ArchiveSnapshot{
		Tickets: []model.Ticket{
			{ID: "TKT-3001", Title: "Old issue", Status: model.StatusClosed, IsArchived: false},
		},
	}
	require.NoError(t, d.PersistArchived(ctx, arch))

	loaded, err := d.LoadArchived(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Tickets, 1)
	assert.True(t, loaded.Tickets[0].IsArchived)
}

func TestDatabaseReset(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)
	require.NoError(t, d.Seed(ctx))
	require.NoError(t, d.ArchiveOne(ctx, "TKT-1002"))
	require.NoError(t, d.RememberHandle(ctx, Handle{Path: "/tmp/x.json", Name: "x.json"}))

	require.NoError(t, d.Reset(ctx))

	snap, err := d.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Tickets, 3)
	arch, err := d.LoadArchived(ctx)
	require.NoError(t, err)
	assert.Empty(t, arch.Tickets)
	handle, err := d.RecallHandle(ctx)
	require.NoError(t, err)
	assert.Nil(t, handle)
}

func TestDatabaseHandleLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	handle, err := d.RecallHandle(ctx)
	require.NoError(t, err)
	assert.Nil(t, handle, "no handle stored yet")

	require.NoError(t, d.RememberHandle(ctx, Handle{Path: "/data/t.json", Name: "t.json"}))
	handle, err = d.RecallHandle(ctx)
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.Equal(t, "/data/t.json", handle.Path)
	assert.Equal(t, "t.json", handle.Name)

	// Remember overwrites the single slot.
	require.NoError(t, d.RememberHandle(ctx, Handle{Path: "/data/u.json", Name: "u.json"}))
	handle, err = d.RecallHandle(ctx)
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.Equal(t, "u.json", handle.Name)

	require.NoError(t, d.ForgetHandle(ctx))
	handle, err = d.RecallHandle(ctx)
	require.NoError(t, err)
	assert.Nil(t, handle)

	// Forgetting again is a no-op.
	require.NoError(t, d.ForgetHandle(ctx))
}
