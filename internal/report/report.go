// Package report computes read-only summaries over the ticket corpus. All
// aggregation happens in-memory over snapshot copies handed in by the caller,
// so a report never observes a half-applied mutation.
package report

import (
	"time"

	"ticket-tracker-backend/internal/model"
)

// Range bounds a report to tickets created within [From, To]. Zero bounds are
// open ends.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// TicketSummary counts tickets by status and priority.
type TicketSummary struct {
	Total      int                          `json:"total"`
	Archived   int                          `json:"archived"`
	ByStatus   map[model.TicketStatus]int   `json:"byStatus"`
	ByPriority map[model.TicketPriority]int `json:"byPriority"`
}

// SystemStatus reports the ticket load on one system.
type SystemStatus struct {
	System   string `json:"system"`
	Open     int    `json:"open"`
	Resolved int    `json:"resolved"`
	Total    int    `json:"total"`
}

// ResolutionStats summarizes time-to-resolution over resolved tickets.
type ResolutionStats struct {
	Resolved int           `json:"resolved"`
	Mean     time.Duration `json:"mean"`
	Max      time.Duration `json:"max"`
}

// Summarize counts active and archived tickets by status and priority.
func Summarize(active, archived []model.Ticket, r Range) TicketSummary {
	summary := TicketSummary{
		ByStatus:   make(map[model.TicketStatus]int),
		ByPriority: make(map[model.TicketPriority]int),
	}
	for _, t := range active {
		if !r.contains(t.CreatedAt) {
			continue
		}
		summary.Total++
		summary.ByStatus[t.Status]++
		summary.ByPriority[t.Priority]++
	}
	for _, t := range archived {
		if !r.contains(t.CreatedAt) {
			continue
		}
		summary.Total++
		summary.Archived++
		summary.ByStatus[t.Status]++
		summary.ByPriority[t.Priority]++
	}
	return summary
}

// BySystem groups the ticket load per system, ordered by total descending
// with ties broken by system name.
func BySystem(active, archived []model.Ticket, r Range) []SystemStatus {
	index := make(map[string]*SystemStatus)
	tally := func(tickets []model.Ticket) {
		for _, t := range tickets {
			if !r.contains(t.CreatedAt) {
				continue
			}
			status, ok := index[t.System]
			if !ok {
				status = &SystemStatus{System: t.System}
				index[t.System] = status
			}
			status.Total++
			switch t.Status {
			case model.StatusResolved, model.StatusClosed:
				status.Resolved++
			default:
				status.Open++
			}
		}
	}
	tally(active)
	tally(archived)

	out := make([]SystemStatus, 0, len(index))
	for _, status := range index {
		out = append(out, *status)
	}
	sortSystems(out)
	return out
}

func sortSystems(statuses []SystemStatus) {
	for i := 1; i < len(statuses); i++ {
		for j := i; j > 0; j-- {
			a, b := statuses[j-1], statuses[j]
			if a.Total > b.Total || (a.Total == b.Total && a.System <= b.System) {
				break
			}
			statuses[j-1], statuses[j] = b, a
		}
	}
}

// Resolution computes mean and worst-case time-to-resolution across every
// ticket with a recorded resolution time.
func Resolution(active, archived []model.Ticket, r Range) ResolutionStats {
	var stats ResolutionStats
	var total time.Duration
	measure := func(tickets []model.Ticket) {
		for _, t := range tickets {
			if t.ResolvedAt == nil || !r.contains(t.CreatedAt) {
				continue
			}
			elapsed := t.ResolvedAt.Sub(t.CreatedAt)
			if elapsed < 0 {
				continue
			}
			stats.Resolved++
			total += elapsed
			if elapsed > stats.Max {
				stats.Max = elapsed
			}
		}
	}
	measure(active)
	measure(archived)
	if stats.Resolved > 0 {
		stats.Mean = total / time.Duration(stats.Resolved)
	}
	return stats
}
