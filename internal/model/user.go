package model

// UserRole is a cosmetic role label. The store does not enforce
// authorization; roles exist for display and attribution only.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTechnician UserRole = "technician"
	RoleViewer     UserRole = "viewer"
)

// User is an application user. The password is stored as plaintext; real
// credential handling is explicitly out of scope for this system.
type User struct {
	ID       string   `gorm:"primaryKey;size:64" json:"id"`
	Username string   `gorm:"size:128;not null;index" json:"username"`
	Email    string   `gorm:"size:256" json:"email"`
	Password string   `gorm:"size:256" json:"password"`
	Role     UserRole `gorm:"size:16" json:"role"`
}
