package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"instalapro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstalledProduct describes one installed item on the receipt form.
type InstalledProduct struct {
	InstalledProduct string `json:"installedProduct"`
	InstalledIn      string `json:"installedIn"`
	Quantity         int    `json:"quantity"`
	Specification    string `json:"specification"`
	SerialNumber     string `json:"serialNumber"`
}

// ReceiptInput is the signed completion form submitted by the installer.
// Images and the signature arrive as base64 data URIs.
type ReceiptInput struct {
	ServiceID              uuid.UUID          `json:"serviceId"`
	StartTime              string             `json:"startTime"`
	EndTime                string             `json:"endTime"`
	InstallerName          string             `json:"installerName"`
	InstalledProduct       []InstalledProduct `json:"installedProduct"`
	Recommendations        string             `json:"recommendations"`
	ClientComments         string             `json:"clientComments"`
	ClientSignature        string             `json:"clientSignature"`
	IsClientAbsent         bool               `json:"isClientAbsent"`
	RelationshipWithClient string             `json:"relationshipWithClient"`
	SecondaryClientName    string             `json:"secondaryClientName"`
	ClientEmail            string             `json:"clientEmail"`
	Images                 []string           `json:"images"`
}

// ReceiptService runs the proof-of-completion pipeline: render the PDF,
// upload it, record the receipt, mark the service Done, email the
// client and release the schedule slot. Later-step failures undo the
// earlier steps in reverse order so no partial receipt is ever visible.
type ReceiptService struct {
	db       *gorm.DB
	store    FileStore
	mailer   Mailer
	schedule *ScheduleService
}

func NewReceiptService(db *gorm.DB, store FileStore, mailer Mailer) *ReceiptService {
	return &ReceiptService{
		db:       db,
		store:    store,
		mailer:   mailer,
		schedule: NewScheduleService(db),
	}
}

func (s *ReceiptService) CreateReceipt(ctx context.Context, in ReceiptInput) (*models.Receipt, error) {
	if err := validateReceiptInput(in); err != nil {
		return nil, err
	}

	var service models.Service
	err := s.db.Preload("Store").Preload("Installer").Preload("JobDetails").
		First(&service, "id = ?", in.ServiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Service not found")
		}
		return nil, err
	}

	var existing models.Receipt
	err = s.db.First(&existing, "service_id = ?", service.ID).Error
	if err == nil {
		// The job is demonstrably finished even though this submission
		// is redundant, so the status still flips.
		s.db.Model(&service).Update("status", models.StatusDone)
		return nil, NewDuplicateError("A receipt already exists for this service")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pdf, err := BuildReceiptPDF(&service, in)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt PDF: %w", err)
	}

	objectKey := fmt.Sprintf("receipts/%s.pdf", service.ID)
	url, err := s.store.Upload(ctx, objectKey, pdf, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to upload receipt PDF: %w", err)
	}

	receipt := models.Receipt{
		ServiceID:  service.ID,
		ReceiptURL: url,
		ObjectKey:  objectKey,
	}
	if err := s.db.Create(&receipt).Error; err != nil {
		s.cleanupUpload(ctx, objectKey)
		return nil, err
	}

	if err := s.db.Model(&service).Update("status", models.StatusDone).Error; err != nil {
		s.cleanupReceipt(ctx, &receipt)
		return nil, err
	}

	signer := service.Client
	if in.IsClientAbsent {
		signer = in.SecondaryClientName
	}
	fileName := fmt.Sprintf("%s.pdf", service.ID)
	if err := s.mailer.SendReceipt(in.ClientEmail, signer, fileName, pdf); err != nil {
		s.cleanupReceipt(ctx, &receipt)
		return nil, fmt.Errorf("failed to send receipt email: %w", err)
	}

	if err := s.schedule.DeleteEntriesForService(nil, service.ID); err != nil {
		log.Printf("Failed to release schedule slot for service %s: %v", service.ID, err)
	}

	return &receipt, nil
}

// FindReceipt returns the receipt URL for a service.
func (s *ReceiptService) FindReceipt(serviceID uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := s.db.First(&receipt, "service_id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Receipt not found")
		}
		return nil, err
	}
	return &receipt, nil
}

func validateReceiptInput(in ReceiptInput) error {
	if in.ServiceID == uuid.Nil || in.StartTime == "" || in.EndTime == "" ||
		in.InstallerName == "" || len(in.InstalledProduct) == 0 ||
		in.ClientSignature == "" || in.Recommendations == "" || in.ClientComments == "" {
		return NewValidationError("Missing data for the completion receipt")
	}
	if in.IsClientAbsent && (in.RelationshipWithClient == "" || in.SecondaryClientName == "") {
		return NewValidationError("Missing signer details for an absent client")
	}
	if len(in.Images) < 3 || len(in.Images) > 6 {
		return NewValidationError("Between 3 and 6 evidence images are required")
	}
	return nil
}

func (s *ReceiptService) cleanupUpload(ctx context.Context, objectKey string) {
	if err := s.store.Delete(ctx, objectKey); err != nil {
		log.Printf("Failed to delete uploaded receipt %s during rollback: %v", objectKey, err)
	}
}

func (s *ReceiptService) cleanupReceipt(ctx context.Context, receipt *models.Receipt) {
	if err := s.db.Delete(&models.Receipt{}, "id = ?", receipt.ID).Error; err != nil {
		log.Printf("Failed to delete receipt record %s during rollback: %v", receipt.ID, err)
	}
	s.cleanupUpload(ctx, receipt.ObjectKey)
}
