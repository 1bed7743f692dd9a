package model

// Watchstation is a physical monitoring position responsible for a set of
// systems. The systems slice is membership, not ownership.
type Watchstation struct {
	ID       string   `gorm:"primaryKey;size:64" json:"id"`
	Name     string   `gorm:"size:128;not null" json:"name"`
	Location string   `gorm:"size:256" json:"location"`
	Systems  []string `gorm:"serializer:json" json:"systems"`
}

// Clone returns a deep copy of the watchstation.
func (w Watchstation) Clone() Watchstation {
	out := w
	if w.Systems != nil {
		out.Systems = make([]string, len(w.Systems))
		copy(out.Systems, w.Systems)
	}
	return out
}
