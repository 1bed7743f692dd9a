package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-tracker-backend/internal/model"
	"ticket-tracker-backend/internal/storage"
)

func TestExportImportRoundTrip(t *testing.T) {
	source, _ := newTestStore(t)
	ctx := context.Background()

	_, err := source.CreateTicket(ctx, TicketInput{Title: "Exported issue", Priority: model.PriorityHigh})
	require.NoError(t, err)

	raw, err := source.ExportSnapshot()
	require.NoError(t, err)

	target, _ := newTestStore(t)
	require.NoError(t, target.ImportSnapshot(ctx, raw))

	sourceTickets := source.GetTickets()
	targetTickets := target.GetTickets()
	require.Len(t, targetTickets, len(sourceTickets))
	for i := range sourceTickets {
		assert.Equal(t, sourceTickets[i].ID, targetTickets[i].ID)
		assert.Equal(t, sourceTickets[i].Title, targetTickets[i].Title)
		assert.Equal(t, sourceTickets[i].Status, targetTickets[i].Status)
	}
	assert.Equal(t, source.GetAllData().NextTicketNumber, target.GetAllData().NextTicketNumber)
	assert.Len(t, target.GetSystems(), len(source.GetSystems()))
}

func TestImportSnapshotReconcilesCounter(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	doc := map[string]interface{}{
		"tickets": []map[string]interface{}{
			{"id": "TKT-1010", "title": "Imported high-water mark", "status": "open"},
		},
		"systems":          []interface{}{},
		"settings":         map[string]interface{}{"id": "app-settings", "ticketPrefix": "TKT"},
		"nextTicketNumber": 1002,
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, s.ImportSnapshot(ctx, raw))

	// The next created ticket must not collide with the imported one.
	ticket, err := s.CreateTicket(ctx, TicketInput{Title: "Post-import"})
	require.NoError(t, err)
	assert.Equal(t, "TKT-1011", ticket.ID)
}

func TestImportSnapshotRejectsGarbage(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		raw  string
	}{
		{name: "Not JSON at all", raw: "definitely not json"},
		{name: "JSON but not a snapshot", raw: `{"foo": 1}`},
		{name: "Snapshot missing collections", raw: `{"tickets": []}`},
		{name: "Ticket without id", raw: `{"tickets": [{"title": "x"}], "systems": []}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.ImportSnapshot(ctx, []byte(tc.raw))
			assert.ErrorIs(t, err, storage.ErrParse)
			// A rejected import leaves the current data fully intact.
			assert.Len(t, s.GetTickets(), 3)
		})
	}
}

func TestExportImportArchiveRoundTrip(t *testing.T) {
	source, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, source.ArchiveTicket(ctx, "TKT-1002"))
	raw, err := source.ExportArchive()
	require.NoError(t, err)

	target, _ := newTestStore(t)
	require.NoError(t, target.ImportArchive(ctx, raw))

	archived := target.GetArchivedTickets()
	require.Len(t, archived, 1)
	assert.Equal(t, "TKT-1002", archived[0].ID)
	assert.True(t, archived[0].IsArchived)

	// The active partition is untouched by an archive import.
	assert.Len(t, target.GetTickets(), 3)
}

func TestImportArchiveRejectsGarbage(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.ImportArchive(ctx, []byte("nope")), storage.ErrParse)
	assert.ErrorIs(t, s.ImportArchive(ctx, []byte(`{"foo": 1}`)), storage.ErrParse)
	assert.Empty(t, s.GetArchivedTickets())
}

func TestExportSnapshotIsValidImportDocument(t *testing.T) {
	s, _ := newTestStore(t)

	raw, err := s.ExportSnapshot()
	require.NoError(t, err)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.NoError(t, validateSnapshot(&snap))
}
