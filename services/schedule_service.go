package services

import (
	"database/sql"
	"errors"
	"time"

	"instalapro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleService owns the no-double-booking invariant: no two entries
// for the same installer may overlap in time, whether the installer is
// claimed through a service assignment or a manual block.
type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// CreateEntryInput carries a validated proposal for a new entry. For
// Service-kind entries ServiceID must be set; Block-kind entries belong
// to the acting installer in the caller scope.
type CreateEntryInput struct {
	Kind        string
	StartTime   time.Time
	EndTime     time.Time
	ServiceID   *uuid.UUID
	Description string
}

// UpdateEntryInput is a partial patch; nil fields keep their prior
// values.
type UpdateEntryInput struct {
	StartTime   *time.Time
	EndTime     *time.Time
	ServiceID   *uuid.UUID
	Description *string
}

// ScheduleEntryView is the enriched projection returned to admins:
// entries joined with their service, store and installer for display.
type ScheduleEntryView struct {
	ID            uuid.UUID `json:"id"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Kind          string    `json:"type"`
	ServiceID     uuid.UUID `json:"serviceId"`
	Folio         int       `json:"folio"`
	Client        string    `json:"client"`
	ServiceStatus string    `json:"serviceStatus"`
	StoreName     string    `json:"storeName"`
	NumStore      int       `json:"numStore"`
	District      string    `json:"district"`
	Country       string    `json:"country"`
	InstallerName string    `json:"installerName"`
}

// serializable ensures the conflict check and the write commit as one
// unit, closing the window where two concurrent bookings for the same
// installer could both pass the check.
var serializable = sql.TxOptions{Isolation: sql.LevelSerializable}

// CreateEntry validates the proposed interval, resolves the effective
// installer, runs the conflict test against every existing entry of
// either kind for that installer, and persists the entry.
func (s *ScheduleService) CreateEntry(scope CallerScope, in CreateEntryInput) (*models.ScheduleEntry, error) {
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return nil, NewValidationError("Missing start or end time")
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, NewValidationError("Start time must be before end time")
	}

	entry := models.ScheduleEntry{
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Kind:        in.Kind,
		Description: in.Description,
	}

	var installerID uuid.UUID

	switch in.Kind {
	case models.EntryKindService:
		if in.ServiceID == nil {
			return nil, NewValidationError("Missing service for schedule entry")
		}
		var service models.Service
		if err := s.db.Where("id = ? AND deleted = ?", *in.ServiceID, false).First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("Service not found")
			}
			return nil, err
		}
		if service.InstallerID == uuid.Nil {
			return nil, NewValidationError("Service has no installer assigned")
		}
		installerID = service.InstallerID
		entry.ServiceID = in.ServiceID
	case models.EntryKindBlock:
		if scope.Installer == nil {
			return nil, NewForbiddenError("Only installers can block time")
		}
		installerID = scope.Installer.ID
		entry.InstallerID = &installerID
	default:
		return nil, NewValidationError("Unknown schedule entry type")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if entry.ServiceID != nil {
			booked, err := s.serviceBooked(tx, *entry.ServiceID, nil)
			if err != nil {
				return err
			}
			if booked {
				return NewDuplicateError("Service already has a schedule entry")
			}
		}

		conflict, err := s.hasConflict(tx, installerID, in.StartTime, in.EndTime, nil)
		if err != nil {
			return err
		}
		if conflict {
			return NewConflictError("Installer already has a commitment in that time slot")
		}

		return tx.Create(&entry).Error
	}, &serializable)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// UpdateEntry applies a partial patch. Interval changes re-run the
// conflict test against all other entries for the effective installer;
// the entry never conflicts with itself.
func (s *ScheduleService) UpdateEntry(scope CallerScope, id uuid.UUID, in UpdateEntryInput) (*models.ScheduleEntry, error) {
	var entry models.ScheduleEntry

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Schedule entry not found")
			}
			return err
		}

		installerChanged := false
		if in.ServiceID != nil && (entry.ServiceID == nil || *entry.ServiceID != *in.ServiceID) {
			if entry.Kind != models.EntryKindService {
				return NewValidationError("Only service entries reference a service")
			}
			var service models.Service
			if err := tx.Where("id = ? AND deleted = ?", *in.ServiceID, false).First(&service).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewNotFoundError("Service not found")
				}
				return err
			}
			booked, err := s.serviceBooked(tx, *in.ServiceID, &entry.ID)
			if err != nil {
				return err
			}
			if booked {
				return NewDuplicateError("Service already has a schedule entry")
			}
			entry.ServiceID = in.ServiceID
			installerChanged = true
		}

		timesChanged := false
		if in.StartTime != nil && !in.StartTime.Equal(entry.StartTime) {
			entry.StartTime = *in.StartTime
			timesChanged = true
		}
		if in.EndTime != nil && !in.EndTime.Equal(entry.EndTime) {
			entry.EndTime = *in.EndTime
			timesChanged = true
		}
		if timesChanged && !entry.StartTime.Before(entry.EndTime) {
			return NewValidationError("Start time must be before end time")
		}

		if timesChanged || installerChanged {
			installerID, err := s.effectiveInstaller(tx, &entry)
			if err != nil {
				return err
			}
			conflict, err := s.hasConflict(tx, installerID, entry.StartTime, entry.EndTime, &entry.ID)
			if err != nil {
				return err
			}
			if conflict {
				return NewConflictError("Installer already has a commitment in that time slot")
			}
		}

		if in.Description != nil {
			entry.Description = *in.Description
		}

		return tx.Save(&entry).Error
	}, &serializable)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// DeleteEntry removes an entry. Physical delete; cascading service
// status changes belong to the service component, not here.
func (s *ScheduleService) DeleteEntry(id uuid.UUID) error {
	result := s.db.Delete(&models.ScheduleEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("Schedule entry not found")
	}
	return nil
}

// FindEntriesForAdmin returns the enriched calendar for the admin's
// scope. Only service-linked entries have a store, so blocks never
// appear in the admin calendar.
func (s *ScheduleService) FindEntriesForAdmin(admin *models.Admin) ([]ScheduleEntryView, error) {
	cond, arg, err := StoreScopeFilter(admin)
	if err != nil {
		return nil, err
	}

	views := []ScheduleEntryView{}
	err = s.db.Table("schedule_entries").
		Select(`schedule_entries.id, schedule_entries.start_time, schedule_entries.end_time, schedule_entries.kind,
			services.id AS service_id, services.folio, services.client, services.status AS service_status,
			stores.name AS store_name, stores.num_store, stores.district, stores.country,
			installers.name AS installer_name`).
		Joins("JOIN services ON services.id = schedule_entries.service_id AND services.deleted = ?", false).
		Joins("JOIN stores ON stores.id = services.store_id").
		Joins("JOIN installers ON installers.id = services.installer_id").
		Where(cond, arg).
		Order("schedule_entries.start_time").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// FindEntriesForInstaller returns the installer's own entries of both
// kinds, hiding entries whose service is already Done or Canceled.
func (s *ScheduleService) FindEntriesForInstaller(installer *models.Installer) ([]models.ScheduleEntry, error) {
	entries := []models.ScheduleEntry{}
	err := s.db.Preload("Service").
		Joins("LEFT JOIN services ON services.id = schedule_entries.service_id").
		Where("COALESCE(schedule_entries.installer_id, services.installer_id) = ?", installer.ID).
		Where("schedule_entries.service_id IS NULL OR services.status NOT IN ?",
			[]string{models.StatusDone, models.StatusCanceled}).
		Order("schedule_entries.start_time").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntriesForService removes the schedule entry linked to a
// service, if any. Used by service cancellation and receipt creation.
func (s *ScheduleService) DeleteEntriesForService(tx *gorm.DB, serviceID uuid.UUID) error {
	if tx == nil {
		tx = s.db
	}
	return tx.Delete(&models.ScheduleEntry{}, "service_id = ?", serviceID).Error
}

// hasConflict runs the half-open interval overlap test over every entry
// whose effective installer matches, resolving the installer directly
// for blocks and through the linked service for service entries.
// Touching endpoints do not conflict, so back-to-back bookings pass.
func (s *ScheduleService) hasConflict(tx *gorm.DB, installerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	q := tx.Table("schedule_entries").
		Joins("LEFT JOIN services ON services.id = schedule_entries.service_id").
		Where("COALESCE(schedule_entries.installer_id, services.installer_id) = ?", installerID).
		Where("schedule_entries.start_time < ? AND schedule_entries.end_time > ?", end, start)
	if excludeID != nil {
		q = q.Where("schedule_entries.id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// serviceBooked reports whether another entry already references the
// service (one schedule per job).
func (s *ScheduleService) serviceBooked(tx *gorm.DB, serviceID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	q := tx.Model(&models.ScheduleEntry{}).Where("service_id = ?", serviceID)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// effectiveInstaller resolves which installer an entry's interval
// belongs to: directly for blocks, through the service for service
// entries.
func (s *ScheduleService) effectiveInstaller(tx *gorm.DB, entry *models.ScheduleEntry) (uuid.UUID, error) {
	if entry.InstallerID != nil {
		return *entry.InstallerID, nil
	}
	if entry.ServiceID == nil {
		return uuid.Nil, NewValidationError("Schedule entry has no installer or service reference")
	}
	var service models.Service
	if err := tx.Select("installer_id").First(&service, "id = ?", *entry.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, NewNotFoundError("Service not found")
		}
		return uuid.Nil, err
	}
	return service.InstallerID, nil
}
