package model

// Circuit is a communication circuit, optionally tied to a system.
type Circuit struct {
	ID          string       `gorm:"primaryKey;size:64" json:"id"`
	Description string       `json:"description"`
	Designation string       `gorm:"size:128;index" json:"designation"`
	Status      SystemStatus `gorm:"size:16;index" json:"status"`
	System      string       `gorm:"size:64;index" json:"system"`
}
