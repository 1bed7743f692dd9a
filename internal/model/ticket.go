package model

import "time"

// TicketPriority classifies how urgent a ticket is.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// TicketStatus tracks a ticket through its lifecycle:
// open -> in-progress -> resolved -> closed.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in-progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// HistoryEntry is one append-ordered log line on a ticket. Entries are kept
// newest-first, matching the order the UI renders them in.
type HistoryEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
	User      string    `json:"user"`
}

// Ticket is a trouble ticket. The same struct backs both the active tickets
// table and the archived_tickets table; IsArchived is set only while the
// ticket lives in the archive partition.
//
// Timestamps are owned by the store layer, so gorm's automatic stamping is
// disabled on CreatedAt/UpdatedAt.
type Ticket struct {
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	Title          string         `gorm:"size:256;not null" json:"title"`
	Description    string         `json:"description"`
	Priority       TicketPriority `gorm:"size:16;index" json:"priority"`
	System         string         `gorm:"size:64;index" json:"system"`
	AreaSupervisor string         `gorm:"size:128" json:"areaSupervisor"`
	Impact         string         `json:"impact"`
	Status         TicketStatus   `gorm:"size:16;index" json:"status"`
	CreatedAt      time.Time      `gorm:"index;autoCreateTime:false" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"index;autoUpdateTime:false" json:"updatedAt"`
	ResolvedAt     *time.Time     `gorm:"index" json:"resolvedAt"`
	History        []HistoryEntry `gorm:"serializer:json" json:"history"`
	IsArchived     bool           `json:"isArchived,omitempty"`
}

// Clone returns a deep copy of the ticket.
func (t Ticket) Clone() Ticket {
	out := t
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		out.ResolvedAt = &resolved
	}
	if t.History != nil {
		out.History = make([]HistoryEntry, len(t.History))
		copy(out.History, t.History)
	}
	return out
}
