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

type InstallerLoginInput struct {
	InstallerID int    `json:"installerId" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type CreateInstallerInput struct {
	InstallerID int         `json:"installerId" binding:"required"`
	Name        string      `json:"name" binding:"required"`
	Email       string      `json:"email" binding:"required,email"`
	Phone       string      `json:"phone"`
	Company     string      `json:"company" binding:"required"`
	Password    string      `json:"password" binding:"required,min=8"`
	StoreIDs    []uuid.UUID `json:"storeIds" binding:"required,min=1"`
}

type UpdateInstallerInput struct {
	InstallerID *int         `json:"installerId"`
	Name        *string      `json:"name"`
	Email       *string      `json:"email"`
	Phone       *string      `json:"phone"`
	Company     *string      `json:"company"`
	Password    *string      `json:"password"`
	StoreIDs    *[]uuid.UUID `json:"storeIds"`
}

// LoginInstaller authenticates an installer by badge number.
func LoginInstaller(c *gin.Context) {
	var input InstallerLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var installer models.Installer
	result := config.DB.Where("number = ? AND deleted = ?", input.InstallerID, false).First(&installer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, installer.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(installer.ID.String(), false)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.SetCookie("access_token", token, utils.TokenMaxAge(), "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"error":   false,
		"message": "Login successful",
		"token":   token,
	})
}

// CreateInstaller registers an installer and associates the stores they
// serve.
func CreateInstaller(c *gin.Context) {
	var input CreateInstallerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Installer
	result := config.DB.Where("number = ? OR email = ?", input.InstallerID, input.Email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "An installer with that id or email already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var stores []models.Store
	if err := config.DB.Where("id IN ? AND deleted = ?", input.StoreIDs, false).Find(&stores).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if len(stores) != len(input.StoreIDs) {
		utils.RespondWithError(c, http.StatusNotFound, "Store not found")
		return
	}

	installer := models.Installer{
		Number:   input.InstallerID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Company:  input.Company,
		Password: input.Password, // hashed in BeforeCreate hook
		Stores:   stores,
	}

	if err := config.DB.Create(&installer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create installer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"error":     false,
		"message":   "Installer registered successfully",
		"installer": installer,
	})
}

// GetInstallers lists installers serving stores within the caller's
// scope.
func GetInstallers(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Administrator access required")
		return
	}

	cond, arg, err := services.StoreScopeFilter(admin)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var installers []models.Installer
	err = config.DB.
		Joins("JOIN installer_stores ON installer_stores.installer_id = installers.id").
		Joins("JOIN stores ON stores.id = installer_stores.store_id").
		Where(cond, arg).
		Where("installers.deleted = ?", false).
		Distinct("installers.*").
		Find(&installers).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve installers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Installers found", "installers": installers})
}

// UpdateInstaller updates an installer; only supplied fields change.
func UpdateInstaller(c *gin.Context) {
	installerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid installer ID format")
		return
	}

	var input UpdateInstallerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var installer models.Installer
	if err := config.DB.Where("id = ? AND deleted = ?", installerID, false).First(&installer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Installer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.InstallerID != nil && *input.InstallerID != installer.Number {
		var inUse models.Installer
		if err := config.DB.Where("number = ?", *input.InstallerID).First(&inUse).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "An installer with that id already exists")
			return
		}
		installer.Number = *input.InstallerID
	}
	if input.Email != nil && *input.Email != installer.Email {
		var inUse models.Installer
		if err := config.DB.Where("email = ?", *input.Email).First(&inUse).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "An installer with that email already exists")
			return
		}
		installer.Email = *input.Email
	}
	if input.Name != nil {
		installer.Name = *input.Name
	}
	if input.Phone != nil {
		installer.Phone = *input.Phone
	}
	if input.Company != nil {
		installer.Company = *input.Company
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
			return
		}
		installer.Password = hashed
	}

	if err := config.DB.Save(&installer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update installer")
		return
	}

	if input.StoreIDs != nil {
		var stores []models.Store
		if err := config.DB.Where("id IN ? AND deleted = ?", *input.StoreIDs, false).Find(&stores).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if len(stores) != len(*input.StoreIDs) {
			utils.RespondWithError(c, http.StatusNotFound, "Store not found")
			return
		}
		if err := config.DB.Model(&installer).Association("Stores").Replace(stores); err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update store association")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Installer updated successfully", "installer": installer})
}

// DeleteInstaller soft deletes an installer.
func DeleteInstaller(c *gin.Context) {
	installerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid installer ID format")
		return
	}

	result := config.DB.Model(&models.Installer{}).
		Where("id = ? AND deleted = ?", installerID, false).
		Update("deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete installer")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Installer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Installer deleted successfully"})
}
