package models

import (
	"instalapro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Installer is a field technician. Number is the human-assigned badge
// number used for login; an installer can serve several stores.
type Installer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Number   int       `gorm:"uniqueIndex;not null" json:"installerId"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone    string    `json:"phone"`
	Company  string    `gorm:"not null" json:"company"`
	Password string    `gorm:"not null" json:"-"`
	Stores   []Store   `gorm:"many2many:installer_stores" json:"stores,omitempty"`
	Deleted  bool      `gorm:"default:false" json:"-"`
}

func (i *Installer) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(i.Password)
	if err != nil {
		return err
	}
	i.Password = hashed
	return
}
