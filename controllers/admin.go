package controllers

import (
	"errors"
	"net/http"

	"instalapro-backend/config"
	"instalapro-backend/models"
	"instalapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminLoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateAdminInput struct {
	Name     string     `json:"name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Username string     `json:"username" binding:"required"`
	Password string     `json:"password" binding:"required,min=8"`
	Role     string     `json:"role" binding:"required,oneof=local district national"`
	StoreID  *uuid.UUID `json:"storeId"`
	District string     `json:"district"`
	Country  string     `json:"country"`
}

type UpdateAdminInput struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Username *string    `json:"username"`
	Password *string    `json:"password"`
	Role     *string    `json:"role" binding:"omitempty,oneof=local district national"`
	StoreID  *uuid.UUID `json:"storeId"`
	District *string    `json:"district"`
	Country  *string    `json:"country"`
}

// LoginAdmin authenticates an administrator by username and sets the
// access_token cookie.
func LoginAdmin(c *gin.Context) {
	var input AdminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var admin models.Admin
	result := config.DB.Where("username = ? AND deleted = ?", input.Username, false).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, admin.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(admin.ID.String(), true)
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

// CreateAdmin registers an administrator. The role decides which scope
// attribute is mandatory.
func CreateAdmin(c *gin.Context) {
	var input CreateAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Role == models.RoleLocal && input.StoreID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "A local admin needs a store")
		return
	}
	if input.Role == models.RoleDistrict && input.District == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "A district admin needs a district")
		return
	}
	if input.Role == models.RoleNational && input.Country == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "A national admin needs a country")
		return
	}

	var existing models.Admin
	result := config.DB.Where("username = ? OR email = ?", input.Username, input.Email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "An admin with that username or email already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	admin := models.Admin{
		Name:     input.Name,
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password, // hashed in BeforeCreate hook
		Role:     input.Role,
		StoreID:  input.StoreID,
		District: input.District,
		Country:  input.Country,
	}

	if err := config.DB.Create(&admin).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"error":   false,
		"message": "Admin registered successfully",
		"admin":   admin,
	})
}

// GetAdmins lists administrators within the caller's scope.
func GetAdmins(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Administrator access required")
		return
	}

	query := config.DB.Where("deleted = ?", false)
	switch admin.Role {
	case models.RoleNational:
		query = query.Where("country = ?", admin.Country)
	case models.RoleDistrict:
		query = query.Where("district = ?", admin.District)
	case models.RoleLocal:
		if admin.StoreID == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Admin has no store assigned")
			return
		}
		query = query.Where("store_id = ?", *admin.StoreID)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown admin role")
		return
	}

	var admins []models.Admin
	if err := query.Find(&admins).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve admins")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Admins found", "admins": admins})
}

// UpdateAdmin updates an administrator; only supplied fields change.
func UpdateAdmin(c *gin.Context) {
	adminID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid admin ID format")
		return
	}

	var input UpdateAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var admin models.Admin
	if err := config.DB.Where("id = ? AND deleted = ?", adminID, false).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Admin not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Username != nil && *input.Username != admin.Username {
		var inUse models.Admin
		if err := config.DB.Where("username = ?", *input.Username).First(&inUse).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "An admin with that username already exists")
			return
		}
		admin.Username = *input.Username
	}
	if input.Email != nil && *input.Email != admin.Email {
		var inUse models.Admin
		if err := config.DB.Where("email = ?", *input.Email).First(&inUse).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "An admin with that email already exists")
			return
		}
		admin.Email = *input.Email
	}
	if input.Name != nil {
		admin.Name = *input.Name
	}
	if input.Role != nil {
		admin.Role = *input.Role
	}
	if input.StoreID != nil {
		admin.StoreID = input.StoreID
	}
	if input.District != nil {
		admin.District = *input.District
	}
	if input.Country != nil {
		admin.Country = *input.Country
	}

	// A role change must leave the matching scope attribute set.
	if admin.Role == models.RoleLocal && admin.StoreID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "A local admin needs a store")
		return
	}
	if admin.Role == models.RoleDistrict && admin.District == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "A district admin needs a district")
		return
	}
	if admin.Role == models.RoleNational && admin.Country == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "A national admin needs a country")
		return
	}

	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
			return
		}
		admin.Password = hashed
	}

	if err := config.DB.Save(&admin).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update admin")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Admin updated successfully", "admin": admin})
}

// DeleteAdmin soft deletes an administrator.
func DeleteAdmin(c *gin.Context) {
	adminID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid admin ID format")
		return
	}

	result := config.DB.Model(&models.Admin{}).
		Where("id = ? AND deleted = ?", adminID, false).
		Update("deleted", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete admin")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Admin not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Admin deleted successfully"})
}
