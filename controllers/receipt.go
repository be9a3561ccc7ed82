package controllers

import (
	"net/http"

	"instalapro-backend/services"
	"instalapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// receiptService is wired at startup with the storage client and the
// SMTP dialer. Tests inject fakes through SetReceiptService.
var receiptService *services.ReceiptService

func SetReceiptService(s *services.ReceiptService) {
	receiptService = s
}

// CreateReceipt accepts the signed completion form, runs the receipt
// pipeline and returns the hosted PDF URL.
func CreateReceipt(c *gin.Context) {
	if receiptService == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Receipt service not configured")
		return
	}

	var input services.ReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	receipt, err := receiptService.CreateReceipt(c.Request.Context(), input)
	if err != nil {
		if services.IsKind(err, services.KindDuplicate) {
			// The duplicate submission still marked the job finished, so
			// the client can treat this as a terminal success state.
			c.JSON(http.StatusConflict, gin.H{
				"error":     true,
				"message":   "A receipt already exists for this service",
				"completed": true,
			})
			return
		}
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"error":      false,
		"message":    "Receipt created successfully",
		"receiptUrl": receipt.ReceiptURL,
	})
}

// GetReceipt returns the receipt URL for a finished service.
func GetReceipt(c *gin.Context) {
	if receiptService == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Receipt service not configured")
		return
	}

	serviceID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	receipt, err := receiptService.FindReceipt(serviceID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"error":      false,
		"message":    "Receipt found",
		"receiptUrl": receipt.ReceiptURL,
	})
}
