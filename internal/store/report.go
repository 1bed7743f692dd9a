package store

import (
	"ticket-tracker-backend/internal/model"
	"ticket-tracker-backend/internal/report"
)

// TicketSummary aggregates both partitions into status and priority counts.
func (s *Store) TicketSummary(r report.Range) report.TicketSummary {
	active, archived := s.reportInputs()
	return report.Summarize(active, archived, r)
}

// SystemReport groups the ticket load per system across both partitions.
func (s *Store) SystemReport(r report.Range) []report.SystemStatus {
	active, archived := s.reportInputs()
	return report.BySystem(active, archived, r)
}

// ResolutionReport summarizes time-to-resolution across both partitions.
func (s *Store) ResolutionReport(r report.Range) report.ResolutionStats {
	active, archived := s.reportInputs()
	return report.Resolution(active, archived, r)
}

func (s *Store) reportInputs() (active, archived []model.Ticket) {
	return s.GetTickets(), s.GetArchivedTickets()
}
