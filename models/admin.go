package models

import (
	"instalapro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin roles. The role decides which scope attribute is meaningful:
// a local admin belongs to one store, a district admin to a district,
// a national admin to a country.
const (
	RoleLocal    = "local"
	RoleDistrict = "district"
	RoleNational = "national"
)

type Admin struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name     string     `gorm:"not null" json:"name"`
	Email    string     `gorm:"uniqueIndex;not null" json:"email"`
	Username string     `gorm:"uniqueIndex;not null" json:"username"`
	Password string     `gorm:"not null" json:"-"`
	Role     string     `gorm:"type:varchar(20);not null" json:"role"`
	StoreID  *uuid.UUID `gorm:"type:uuid;index" json:"storeId,omitempty"`
	District string     `json:"district,omitempty"`
	Country  string     `json:"country,omitempty"`
	Deleted  bool       `gorm:"default:false" json:"-"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(a.Password)
	if err != nil {
		return err
	}
	a.Password = hashed
	return
}
