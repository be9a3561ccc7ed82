package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	NumStore int       `gorm:"uniqueIndex;not null" json:"numStore"`
	Phone    string    `json:"phone"`
	District string    `gorm:"index;not null" json:"district"`
	City     string    `gorm:"not null" json:"city"`
	State    string    `gorm:"not null" json:"state"`
	Country  string    `gorm:"index;not null" json:"country"`
	Deleted  bool      `gorm:"default:false" json:"-"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
