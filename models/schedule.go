package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule entry kinds. A Service entry claims the installer assigned
// to the linked service; a Block is a free-standing unavailability
// window owned directly by an installer.
const (
	EntryKindService = "Service"
	EntryKindBlock   = "Block"
)

// ScheduleEntry is a committed [StartTime, EndTime) interval for exactly
// one installer. Exactly one of ServiceID / InstallerID is set,
// depending on Kind.
type ScheduleEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StartTime   time.Time  `gorm:"not null;index" json:"startTime"`
	EndTime     time.Time  `gorm:"not null" json:"endTime"`
	Kind        string     `gorm:"type:varchar(10);not null" json:"type"`
	ServiceID   *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"serviceId,omitempty"`
	InstallerID *uuid.UUID `gorm:"type:uuid;index" json:"installerId,omitempty"`
	Description string     `json:"description,omitempty"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (e *ScheduleEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
