package model

// SystemStatus is the operational state of a monitored system. Circuits share
// the same status domain.
type SystemStatus string

const (
	SystemOperational SystemStatus = "operational"
	SystemDegraded    SystemStatus = "degraded"
	SystemDown        SystemStatus = "down"
	SystemUnknown     SystemStatus = "unknown"
)

// System represents a monitored system. Tickets reference systems by ID but
// deleting a system does not cascade into its tickets.
type System struct {
	ID          string       `gorm:"primaryKey;size:64" json:"id"`
	Name        string       `gorm:"size:128;not null;index" json:"name"`
	Description string       `json:"description"`
	Category    string       `gorm:"size:64;index" json:"category"`
	Status      SystemStatus `gorm:"size:16;index" json:"status"`
}
