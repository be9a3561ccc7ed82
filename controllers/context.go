package controllers

import (
	"errors"
	"net/http"

	"instalapro-backend/config"
	"instalapro-backend/models"
	"instalapro-backend/services"
	"instalapro-backend/utils"

	"github.com/gin-gonic/gin"
)

// currentAdmin loads the acting administrator from the token claims set
// by the auth middleware. Soft-deleted admins are treated as unknown.
func currentAdmin(c *gin.Context) (*models.Admin, bool) {
	if !c.GetBool("isAdmin") {
		return nil, false
	}
	var admin models.Admin
	if err := config.DB.First(&admin, "id = ? AND deleted = ?", c.GetString("userId"), false).Error; err != nil {
		return nil, false
	}
	return &admin, true
}

// currentInstaller loads the acting installer from the token claims.
func currentInstaller(c *gin.Context) (*models.Installer, bool) {
	if c.GetBool("isAdmin") {
		return nil, false
	}
	var installer models.Installer
	if err := config.DB.First(&installer, "id = ? AND deleted = ?", c.GetString("userId"), false).Error; err != nil {
		return nil, false
	}
	return &installer, true
}

// callerScope resolves the request to an explicit caller scope for the
// engine operations.
func callerScope(c *gin.Context) (services.CallerScope, bool) {
	if admin, ok := currentAdmin(c); ok {
		return services.AdminScope(admin), true
	}
	if installer, ok := currentInstaller(c); ok {
		return services.InstallerScope(installer), true
	}
	return services.CallerScope{}, false
}

// respondDomainError maps a service-layer error to its status class and
// the standard failure envelope.
func respondDomainError(c *gin.Context, err error) {
	var de *services.DomainError
	if errors.As(err, &de) {
		utils.RespondWithError(c, services.StatusFor(err), de.Message)
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
}
