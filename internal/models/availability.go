package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilitySlot is a bookable consultation window published by staff.
// Invariant: IsBooked is true iff BookedRequestID is set, and at most one
// request ever claims a slot. The claim itself is a conditional update in
// the availability service, not a plain write here.
type AvailabilitySlot struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	StartAt         time.Time `gorm:"not null;index" json:"startAt"`
	EndAt           time.Time `gorm:"not null" json:"endAt"`
	IsBooked        bool      `gorm:"not null;default:false;index" json:"isBooked"`
	BookedRequestID *string   `gorm:"type:char(36)" json:"bookedRequestId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *AvailabilitySlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for AvailabilitySlot
func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}
