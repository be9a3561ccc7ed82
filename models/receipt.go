package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt is the immutable proof-of-completion record for one service.
// ObjectKey identifies the uploaded PDF in the storage bucket so the
// file can be removed if the creation pipeline has to roll back.
type Receipt struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"serviceId"`
	ReceiptURL string    `gorm:"not null" json:"receiptUrl"`
	ObjectKey  string    `gorm:"not null" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
