package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ticket-tracker-backend/internal/model"
)

func ticketAt(id, system string, status model.TicketStatus, priority model.TicketPriority, created time.Time, resolvedAfter time.Duration) model.Ticket {
	t := model.Ticket{
		ID:        id,
		System:    system,
		Status:    status,
		Priority:  priority,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if resolvedAfter > 0 {
		resolved := created.Add(resolvedAfter)
		t.ResolvedAt = &resolved
	}
	return t
}

func testCorpus() (active, archived []model.Ticket) {
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	active = []model.Ticket{
		ticketAt("TKT-1", "net", model.StatusOpen, model.PriorityHigh, base, 0),
		ticketAt("TKT-2", "net", model.StatusResolved, model.PriorityMedium, base.AddDate(0, 0, 1), 2*time.Hour),
		ticketAt("TKT-3", "mail", model.StatusInProgress, model.PriorityCritical, base.AddDate(0, 0, 2), 0),
	}
	archived = []model.Ticket{
		ticketAt("TKT-0", "mail", model.StatusClosed, model.PriorityLow, base.AddDate(0, -2, 0), 6*time.Hour),
	}
	archived[0].IsArchived = true
	return active, archived
}

func TestSummarize(t *testing.T) {
	active, archived := testCorpus()

	summary := Summarize(active, archived, Range{})
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Archived)
	assert.Equal(t, 1, summary.ByStatus[model.StatusOpen])
	assert.Equal(t, 1, summary.ByStatus[model.StatusResolved])
	assert.Equal(t, 1, summary.ByStatus[model.StatusClosed])
	assert.Equal(t, 1, summary.ByPriority[model.PriorityCritical])
	assert.Equal(t, 1, summary.ByPriority[model.PriorityLow])
}

func TestSummarizeWithRange(t *testing.T) {
	active, archived := testCorpus()

	// The archived ticket predates the window.
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	summary := Summarize(active, archived, Range{From: from})
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 0, summary.Archived)

	// Only the first two active tickets fall before the cutoff.
	to := time.Date(2025, 5, 2, 23, 0, 0, 0, time.UTC)
	summary = Summarize(active, archived, Range{From: from, To: to})
	assert.Equal(t, 2, summary.Total)
}

func TestBySystem(t *testing.T) {
	active, archived := testCorpus()

	statuses := BySystem(active, archived, Range{})
	assert.Equal(t, []SystemStatus{
		{System: "mail", Open: 1, Resolved: 1, Total: 2},
		{System: "net", Open: 1, Resolved: 1, Total: 2},
	}, statuses)
}

func TestResolution(t *testing.T) {
	active, archived := testCorpus()

	stats := Resolution(active, archived, Range{})
	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 4*time.Hour, stats.Mean)
	assert.Equal(t, 6*time.Hour, stats.Max)

	// Tickets without a resolution timestamp never count.
	stats = Resolution(active, nil, Range{})
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 2*time.Hour, stats.Mean)
}

func TestResolutionEmpty(t *testing.T) {
	stats := Resolution(nil, nil, Range{})
	assert.Zero(t, stats.Resolved)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.Max)
}
