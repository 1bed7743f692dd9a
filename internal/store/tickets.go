package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticket-tracker-backend/internal/model"
	"ticket-tracker-backend/internal/storage"
)

// TicketInput is the payload for creating a ticket.
type TicketInput struct {
	Title          string
	Description    string
	Priority       model.TicketPriority
	System         string
	AreaSupervisor string
	Impact         string
}

// TicketUpdate is a partial ticket update; nil fields are left unchanged.
type TicketUpdate struct {
	Title          *string
	Description    *string
	Priority       *model.TicketPriority
	System         *string
	AreaSupervisor *string
	Impact         *string
	Status         *model.TicketStatus
}

// TicketFilter selects tickets. Empty (or "all") fields match everything;
// Search is a case-insensitive substring match over ID, title and
// description.
type TicketFilter struct {
	Status          string
	Priority        string
	System          string
	Search          string
	IncludeArchived bool
}

// GetTickets returns all active tickets from the cache.
func (s *Store) GetTickets() []model.Ticket {
	return s.GetAllData().Tickets
}

// GetTicketByID looks a ticket up in the active partition.
func (s *Store) GetTicketByID(id string) (*model.Ticket, error) {
	for _, t := range s.GetTickets() {
		if t.ID == id {
			ticket := t.Clone()
			return &ticket, nil
		}
	}
	return nil, fmt.Errorf("ticket %s: %w", id, storage.ErrNotFound)
}

// CreateTicket assigns the next sequential prefixed ID, stamps timestamps,
// opens the history log, and persists the ticket at the head of the active
// list. The sequence counter advances with the save, so IDs never repeat
// even across restarts.
func (s *Store) CreateTicket(ctx context.Context, input TicketInput) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	now := time.Now().UTC()

	supervisor := input.AreaSupervisor
	if supervisor == "" {
		supervisor = "Unassigned"
	}

	ticket := model.Ticket{
		ID:             fmt.Sprintf("%s-%d", data.Settings.TicketPrefix, data.NextTicketNumber),
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		System:         input.System,
		AreaSupervisor: supervisor,
		Impact:         input.Impact,
		Status:         model.StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
		History: []model.HistoryEntry{
			{
				Action:    "Ticket Created",
				Timestamp: now,
				Details:   "Ticket was created",
				User:      s.currentUser,
			},
		},
	}

	data.Tickets = append([]model.Ticket{ticket}, data.Tickets...)
	data.NextTicketNumber++

	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket applies a partial update, stamping updatedAt and recording
// resolvedAt on the first transition into the resolved status.
func (s *Store) UpdateTicket(ctx context.Context, id string, update TicketUpdate) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	idx := findTicket(data.Tickets, id)
	if idx < 0 {
		return nil, fmt.Errorf("update ticket %s: %w", id, storage.ErrNotFound)
	}

	ticket := &data.Tickets[idx]
	now := time.Now().UTC()

	if update.Title != nil {
		ticket.Title = *update.Title
	}
	if update.Description != nil {
		ticket.Description = *update.Description
	}
	if update.Priority != nil {
		ticket.Priority = *update.Priority
	}
	if update.System != nil {
		ticket.System = *update.System
	}
	if update.AreaSupervisor != nil {
		ticket.AreaSupervisor = *update.AreaSupervisor
	}
	if update.Impact != nil {
		ticket.Impact = *update.Impact
	}
	if update.Status != nil {
		if *update.Status == model.StatusResolved && ticket.Status != model.StatusResolved {
			resolved := now
			ticket.ResolvedAt = &resolved
		}
		ticket.Status = *update.Status
	}
	ticket.UpdatedAt = now

	updated := ticket.Clone()
	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddTicketHistory prepends a history entry attributed to the current user
// and stamps updatedAt.
func (s *Store) AddTicketHistory(ctx context.Context, id, action, details string) (*model.Ticket, error) {
	s.mu.Lock()
	entry := model.HistoryEntry{
		Action:    action,
		Timestamp: time.Now().UTC(),
		Details:   details,
		User:      s.currentUser,
	}
	s.mu.Unlock()
	return s.AddTicketHistoryEntry(ctx, id, entry)
}

// AddTicketHistoryEntry prepends a caller-built history entry, for cases
// where the acting user differs from the current user.
func (s *Store) AddTicketHistoryEntry(ctx context.Context, id string, entry model.HistoryEntry) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	idx := findTicket(data.Tickets, id)
	if idx < 0 {
		return nil, fmt.Errorf("add history to ticket %s: %w", id, storage.ErrNotFound)
	}

	ticket := &data.Tickets[idx]
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	ticket.History = append([]model.HistoryEntry{entry}, ticket.History...)
	ticket.UpdatedAt = time.Now().UTC()

	updated := ticket.Clone()
	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	return &updated, nil
}

// FilterTickets applies the filter in-memory over the cached active
// partition, optionally appending matching archived tickets.
func (s *Store) FilterTickets(filter TicketFilter) []model.Ticket {
	results := matchTickets(s.GetTickets(), filter.Status, filter.Priority, filter.System, filter.Search)
	if filter.IncludeArchived {
		results = append(results, s.SearchArchived(ArchiveFilter{
			Status:   filter.Status,
			Priority: filter.Priority,
			System:   filter.System,
			Search:   filter.Search,
		})...)
	}
	return results
}

func matchTickets(tickets []model.Ticket, status, priority, system, search string) []model.Ticket {
	results := make([]model.Ticket, 0, len(tickets))
	searchLower := strings.ToLower(search)
	for _, t := range tickets {
		if !filterMatches(status, string(t.Status)) {
			continue
		}
		if !filterMatches(priority, string(t.Priority)) {
			continue
		}
		if !filterMatches(system, t.System) {
			continue
		}
		if searchLower != "" && !ticketTextMatches(t, searchLower) {
			continue
		}
		results = append(results, t.Clone())
	}
	return results
}

func filterMatches(filter, value string) bool {
	return filter == "" || filter == "all" || filter == value
}

func ticketTextMatches(t model.Ticket, searchLower string) bool {
	return strings.Contains(strings.ToLower(t.ID), searchLower) ||
		strings.Contains(strings.ToLower(t.Title), searchLower) ||
		strings.Contains(strings.ToLower(t.Description), searchLower)
}

func findTicket(tickets []model.Ticket, id string) int {
	for i, t := range tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}
