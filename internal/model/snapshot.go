package model

import "time"

// Snapshot is the complete serializable state of the active partition: all
// non-archived tickets plus every other entity kind. It is the unit of
// persistence for both backends and the import/export wire format.
type Snapshot struct {
	Tickets          []Ticket       `json:"tickets"`
	Systems          []System       `json:"systems"`
	Watchstations    []Watchstation `json:"watchstations"`
	Circuits         []Circuit      `json:"circuits"`
	Users            []User         `json:"users"`
	Settings         Settings       `json:"settings"`
	NextTicketNumber int            `json:"nextTicketNumber"`
	LastModified     time.Time      `json:"lastModified"`
	LastModifiedBy   string         `json:"lastModifiedBy"`
}

// ArchiveSnapshot is the serializable state of the archive partition. Every
// ticket in it carries IsArchived = true.
type ArchiveSnapshot struct {
	Tickets        []Ticket  `json:"tickets"`
	LastModified   time.Time `json:"lastModified"`
	LastModifiedBy string    `json:"lastModifiedBy"`
}

// EmptySnapshot returns a snapshot with no entities and default settings,
// used as the read fallback before the first load completes.
func EmptySnapshot() *Snapshot {
	settings := DefaultSettings()
	return &Snapshot{
		Tickets:          []Ticket{},
		Systems:          []System{},
		Watchstations:    []Watchstation{},
		Circuits:         []Circuit{},
		Users:            []User{},
		Settings:         settings,
		NextTicketNumber: settings.NextTicketNumber,
		LastModified:     settings.LastModified,
		LastModifiedBy:   settings.LastModifiedBy,
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Tickets = cloneTickets(s.Tickets)
	if s.Systems != nil {
		out.Systems = make([]System, len(s.Systems))
		copy(out.Systems, s.Systems)
	}
	if s.Watchstations != nil {
		out.Watchstations = make([]Watchstation, len(s.Watchstations))
		for i, w := range s.Watchstations {
			out.Watchstations[i] = w.Clone()
		}
	}
	if s.Circuits != nil {
		out.Circuits = make([]Circuit, len(s.Circuits))
		copy(out.Circuits, s.Circuits)
	}
	if s.Users != nil {
		out.Users = make([]User, len(s.Users))
		copy(out.Users, s.Users)
	}
	return &out
}

// Clone returns a deep copy of the archive snapshot.
func (a *ArchiveSnapshot) Clone() *ArchiveSnapshot {
	out := *a
	out.Tickets = cloneTickets(a.Tickets)
	return &out
}

func cloneTickets(tickets []Ticket) []Ticket {
	if tickets == nil {
		return nil
	}
	out := make([]Ticket, len(tickets))
	for i, t := range tickets {
		out[i] = t.Clone()
	}
	return out
}
