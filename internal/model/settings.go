package model

import "time"

// SettingsID is the fixed primary key of the single settings row.
const SettingsID = "app-settings"

// Settings is the singleton application settings record. It also carries the
// persisted ticket sequence counter so that ticket IDs keep increasing across
// process restarts.
type Settings struct {
	ID               string    `gorm:"primaryKey;size:32" json:"id"`
	CompanyName      string    `gorm:"size:128" json:"companyName"`
	TicketPrefix     string    `gorm:"size:16" json:"ticketPrefix"`
	AutoRefresh      int       `json:"autoRefresh"`
	MaxSystems       int       `json:"maxSystems"`
	ArchiveOld       bool      `json:"archiveOld"`
	ArchiveDays      int       `json:"archiveDays"`
	NextTicketNumber int       `json:"nextTicketNumber"`
	LastModified     time.Time `gorm:"autoUpdateTime:false" json:"lastModified"`
	LastModifiedBy   string    `gorm:"size:128" json:"lastModifiedBy"`
}

// DefaultSettings returns the settings used when no settings row exists yet.
func DefaultSettings() Settings {
	return Settings{
		ID:               SettingsID,
		CompanyName:      "Tech Support",
		TicketPrefix:     "TKT",
		AutoRefresh:      60,
		MaxSystems:       100,
		ArchiveOld:       true,
		ArchiveDays:      30,
		NextTicketNumber: 1001,
		LastModified:     time.Now().UTC(),
		LastModifiedBy:   "System",
	}
}
