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

type CreateStoreInput struct {
	Name     string `json:"name" binding:"required"`
	NumStore int    `json:"numStore" binding:"required"`
	Phone    string `json:"phone"`
	District string `json:"district" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	Country  string `json:"country" binding:"required"`
}

type UpdateStoreInput struct {
	Name     *string `json:"name"`
	NumStore *int    `json:"numStore"`
	Phone    *string `json:"phone"`
	District *string `json:"district"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Country  *string `json:"country"`
}

// CreateStore registers a store. Store numbers are unique nationwide.
func CreateStore(c *gin.Context) {
	var input CreateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Store
	result := config.DB.Where("num_store = ?", input.NumStore).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "A store with that number already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	store := models.Store{
		Name:     input.Name,
		NumStore: input.NumStore,
		Phone:    input.Phone,
		District: input.District,
		City:     input.City,
		State:    input.State,
		Country:  input.Country,
	}

	if err := config.DB.Create(&store).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create store")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"error": false, "message": "Store created successfully", "store": store})
}

// GetStores lists stores within the caller's scope.
func GetStores(c *gin.Context) {
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

	var stores []models.Store
	if err := config.DB.Table("stores").Where(cond, arg).Where("stores.deleted = ?", false).Find(&stores).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Stores found", "stores": stores})
}

// UpdateStore updates a store; only supplied fields change.
func UpdateStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	var input UpdateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var store models.Store
	if err := config.DB.Where("id = ? AND deleted = ?", storeID, false).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Store not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.NumStore != nil && *input.NumStore != store.NumStore {
		var inUse models.Store
		if err := config.DB.Where("num_store = ?", *input.NumStore).First(&inUse).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "A store with that number already exists")
			return
		}
		store.NumStore = *input.NumStore
	}
	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.Phone != nil {
		store.Phone = *input.Phone
	}
	if input.District != nil {
		store.District = *input.District
	}
	if input.City != nil {
		store.City = *input.City
	}
	if input.State != nil {
		store.State = *input.State
	}
	if input.Country != nil {
		store.Country = *input.Country
	}

	if err := config.DB.Save(&store).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update store")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Store updated successfully", "store": store})
}

// DeleteStore soft deletes a store.
func DeleteStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	result := config.DB.Model(&models.Store{}).
		Where("id = ? AND deleted = ?", storeID, false).
		Update("deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete store")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Store not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Store deleted successfully"})
}
