package controllers

import (
	"errors"
	"net/http"

	"instalapro-backend/config"
	"instalapro-backend/models"
	"instalapro-backend/services"
	"instalapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobDetailInput defines one priced line item; the commission split is
// derived by the fee calculator, never supplied by the caller.
type JobDetailInput struct {
	Quantity               int     `json:"quantity" binding:"required,min=1"`
	Description            string  `json:"description" binding:"required"`
	InstallationServiceFee float64 `json:"installationServiceFee" binding:"required,min=0"`
}

type CreateServiceInput struct {
	Folio              int              `json:"folio" binding:"required"`
	Client             string           `json:"client" binding:"required"`
	ClientPhone        string           `json:"clientPhone" binding:"required"`
	Address            string           `json:"address" binding:"required"`
	JobDetails         []JobDetailInput `json:"jobDetails" binding:"required,min=1,dive"`
	AdditionalComments string           `json:"additionalComments"`
	InstallerID        uuid.UUID        `json:"installerId" binding:"required"`
}

type UpdateServiceInput struct {
	Folio              *int              `json:"folio"`
	Client             *string           `json:"client"`
	ClientPhone        *string           `json:"clientPhone"`
	Address            *string           `json:"address"`
	JobDetails         *[]JobDetailInput `json:"jobDetails" binding:"omitempty,min=1,dive"`
	AdditionalComments *string           `json:"additionalComments"`
	InstallerID        *uuid.UUID        `json:"installerId"`
	Status             *string           `json:"status"`
}

var validStatuses = map[string]bool{
	models.StatusToDo:  true,
	models.StatusDoing: true,
	models.StatusDone:  true,
}

func toJobDetails(inputs []JobDetailInput) []models.JobDetail {
	details := make([]models.JobDetail, len(inputs))
	for i, in := range inputs {
		details[i] = models.JobDetail{
			Quantity:               in.Quantity,
			Description:            in.Description,
			InstallationServiceFee: in.InstallationServiceFee,
		}
	}
	return details
}

// CreateService registers a job at the admin's store with a fresh fee
// breakdown.
func CreateService(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Administrator access required")
		return
	}
	if admin.StoreID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Admin has no store assigned")
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.ClientPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client phone number")
		return
	}

	var existing models.Service
	result := config.DB.Where("folio = ? AND deleted = ?", input.Folio, false).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "A service with that folio already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var installer models.Installer
	if err := config.DB.Where("id = ? AND deleted = ?", input.InstallerID, false).First(&installer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Installer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	fees := services.CalculateFees(toJobDetails(input.JobDetails))

	service := models.Service{
		Folio:              input.Folio,
		Client:             input.Client,
		ClientPhone:        input.ClientPhone,
		Address:            input.Address,
		JobDetails:         fees.JobDetails,
		Subtotals:          fees.Subtotals,
		IVA:                fees.IVA,
		Totals:             fees.Totals,
		AdditionalComments: input.AdditionalComments,
		Status:             models.StatusToDo,
		StoreID:            *admin.StoreID,
		InstallerID:        installer.ID,
		AdminID:            admin.ID,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"error": false, "message": "Service created successfully", "service": service})
}

// GetServices lists services within the caller's scope: admins see
// their store/district/country, installers their own assignments.
func GetServices(c *gin.Context) {
	if admin, ok := currentAdmin(c); ok {
		cond, arg, err := services.StoreScopeFilter(admin)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		var found []models.Service
		err = config.DB.Preload("JobDetails").Preload("Store").Preload("Installer").
			Joins("JOIN stores ON stores.id = services.store_id").
			Where(cond, arg).
			Where("services.deleted = ?", false).
			Find(&found).Error
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
			return
		}

		c.JSON(http.StatusOK, gin.H{"error": false, "message": "Services found", "services": found})
		return
	}

	installer, ok := currentInstaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unknown caller")
		return
	}

	var found []models.Service
	err := config.DB.Preload("JobDetails").Preload("Store").
		Where("installer_id = ? AND deleted = ?", installer.ID, false).
		Find(&found).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Services found", "services": found})
}

// UpdateService updates a service; supplying line items always reruns
// the fee calculation so the stored breakdown is never hand-patched.
func UpdateService(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("id = ? AND deleted = ?", serviceID, false).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Folio != nil && *input.Folio != service.Folio {
		var inUse models.Service
		err := config.DB.Where("folio = ? AND deleted = ? AND id <> ?", *input.Folio, false, service.ID).First(&inUse).Error
		if err == nil {
			utils.RespondWithError(c, http.StatusConflict, "A service with that folio already exists")
			return
		}
		service.Folio = *input.Folio
	}
	if input.Client != nil {
		service.Client = *input.Client
	}
	if input.ClientPhone != nil {
		if !utils.ValidatePhone(*input.ClientPhone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client phone number")
			return
		}
		service.ClientPhone = *input.ClientPhone
	}
	if input.Address != nil {
		service.Address = *input.Address
	}
	if input.AdditionalComments != nil {
		service.AdditionalComments = *input.AdditionalComments
	}
	if input.InstallerID != nil {
		var installer models.Installer
		if err := config.DB.Where("id = ? AND deleted = ?", *input.InstallerID, false).First(&installer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Installer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		service.InstallerID = installer.ID
	}
	if input.Status != nil {
		if !validStatuses[*input.Status] {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid service status")
			return
		}
		service.Status = *input.Status
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if input.JobDetails != nil {
		if err := tx.Where("service_id = ?", service.ID).Delete(&models.JobDetail{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing line items")
			return
		}

		fees := services.CalculateFees(toJobDetails(*input.JobDetails))
		for i := range fees.JobDetails {
			fees.JobDetails[i].ServiceID = service.ID
		}
		service.JobDetails = fees.JobDetails
		service.Subtotals = fees.Subtotals
		service.IVA = fees.IVA
		service.Totals = fees.Totals
	}

	if err := tx.Save(&service).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Service updated successfully", "service": service})
}

// CancelService soft deletes a service and releases its schedule slot.
func CancelService(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	result := tx.Model(&models.Service{}).
		Where("id = ? AND deleted = ?", serviceID, false).
		Updates(map[string]interface{}{"deleted": true, "status": models.StatusCanceled})
	if result.Error != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel service")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	if err := services.NewScheduleService(config.DB).DeleteEntriesForService(tx, serviceID); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to release schedule slot")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Service canceled successfully"})
}

// RestoreService brings a canceled service back as To Do. Its schedule
// slot is gone; a new entry must be created explicitly.
func RestoreService(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := config.DB.Model(&models.Service{}).
		Where("id = ? AND deleted = ?", serviceID, true).
		Updates(map[string]interface{}{"deleted": false, "status": models.StatusToDo})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to restore service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Service restored successfully"})
}
