package model

import "time"

// StoredHandleID is the fixed primary key of the single remembered-handle row.
const StoredHandleID = "current"

// StoredFileHandle remembers the last snapshot file the user selected, so the
// file storage strategy can be restored on the next boot after re-verifying
// write permission.
type StoredFileHandle struct {
	ID      string    `gorm:"primaryKey;size:32" json:"id"`
	Path    string    `gorm:"size:1024" json:"path"`
	Name    string    `gorm:"size:256" json:"name"`
	SavedAt time.Time `json:"savedAt"`
}
