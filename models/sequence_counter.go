package models

import "time"

// Counter keys, one per resource namespace.
const (
	AdminSequence  = "adminid"
	MemberSequence = "memberid"
	UserSequence   = "userid"
)

// SequenceCounter stores the last value handed out for a named monotonic counter.
// Rows are created on first draw and only ever incremented.
type SequenceCounter struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }
