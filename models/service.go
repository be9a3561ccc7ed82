package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service statuses. Done is set automatically when the completion
// receipt is created; Canceled behaves like a soft delete.
const (
	StatusToDo     = "To Do"
	StatusDoing    = "Doing"
	StatusDone     = "Done"
	StatusCanceled = "Canceled"
)

// FeeBreakdown is one view of the money split between the installation
// fee charged to the client, the commission retained, and the payment
// owed to the installer. A service stores three of these: pre-tax
// subtotals, the IVA line, and the recombined totals.
type FeeBreakdown struct {
	InstallationServiceFee float64 `gorm:"type:decimal(10,2);not null" json:"installationServiceFee"`
	CommissionFee          float64 `gorm:"type:decimal(10,2);not null" json:"commissionFee"`
	InstallerPayment       float64 `gorm:"type:decimal(10,2);not null" json:"installerPayment"`
}

// JobDetail is one priced line item within a service. CommissionFee and
// InstallerPayment are derived by the fee calculator, never supplied.
type JobDetail struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	ServiceID              uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Quantity               int       `gorm:"not null" json:"quantity"`
	Description            string    `gorm:"not null" json:"description"`
	InstallationServiceFee float64   `gorm:"type:decimal(10,2);not null" json:"installationServiceFee"`
	CommissionFee          float64   `gorm:"type:decimal(10,2);not null" json:"commissionFee"`
	InstallerPayment       float64   `gorm:"type:decimal(10,2);not null" json:"installerPayment"`
}

func (d *JobDetail) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

type Service struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Folio              int         `gorm:"index;not null" json:"folio"`
	Client             string      `gorm:"not null" json:"client"`
	ClientPhone        string      `gorm:"not null" json:"clientPhone"`
	Address            string      `gorm:"not null" json:"address"`
	JobDetails         []JobDetail `gorm:"foreignKey:ServiceID" json:"jobDetails"`
	Subtotals          FeeBreakdown `gorm:"embedded;embeddedPrefix:subtotal_" json:"subtotals"`
	IVA                FeeBreakdown `gorm:"embedded;embeddedPrefix:iva_" json:"iva"`
	Totals             FeeBreakdown `gorm:"embedded;embeddedPrefix:total_" json:"totals"`
	AdditionalComments string      `json:"additionalComments,omitempty"`
	Status             string      `gorm:"type:varchar(20);not null" json:"status"`
	StoreID            uuid.UUID   `gorm:"type:uuid;index;not null" json:"storeId"`
	InstallerID        uuid.UUID   `gorm:"type:uuid;index;not null" json:"installerId"`
	AdminID            uuid.UUID   `gorm:"type:uuid;index;not null" json:"-"`
	Deleted            bool        `gorm:"default:false" json:"-"`

	Store     *Store     `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Installer *Installer `gorm:"foreignKey:InstallerID" json:"installer,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
