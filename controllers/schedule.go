package controllers

import (
	"net/http"
	"time"

	"instalapro-backend/config"
	"instalapro-backend/services"
	"instalapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateScheduleInput struct {
	Type        string     `json:"type" binding:"required,oneof=Service Block"`
	Date        string     `json:"date" binding:"required"`
	StartTime   string     `json:"startTime" binding:"required"`
	EndTime     string     `json:"endTime" binding:"required"`
	ServiceID   *uuid.UUID `json:"serviceId"`
	Description string     `json:"description"`
}

type UpdateScheduleInput struct {
	Date        *string    `json:"date"`
	StartTime   *string    `json:"startTime"`
	EndTime     *string    `json:"endTime"`
	ServiceID   *uuid.UUID `json:"serviceId"`
	Description *string    `json:"description"`
}

// CreateSchedule books a time slot: a Service entry pinning a job to
// its installer's calendar, or a Block entry reserving the caller's own
// time.
func CreateSchedule(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unknown caller")
		return
	}

	var input CreateScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	start, err := utils.CombineDateTime(input.Date, input.StartTime)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date or start time")
		return
	}
	end, err := utils.CombineDateTime(input.Date, input.EndTime)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date or end time")
		return
	}

	entry, err := services.NewScheduleService(config.DB).CreateEntry(scope, services.CreateEntryInput{
		Kind:        input.Type,
		StartTime:   start,
		EndTime:     end,
		ServiceID:   input.ServiceID,
		Description: input.Description,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"error": false, "message": "Schedule entry created successfully", "schedule": entry})
}

// GetSchedules returns the caller's calendar: admins get the enriched
// store-scoped view, installers their own entries of both kinds.
func GetSchedules(c *gin.Context) {
	schedule := services.NewScheduleService(config.DB)

	if admin, ok := currentAdmin(c); ok {
		views, err := schedule.FindEntriesForAdmin(admin)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"error": false, "message": "Schedule entries found", "schedules": views})
		return
	}

	installer, ok := currentInstaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unknown caller")
		return
	}

	entries, err := schedule.FindEntriesForInstaller(installer)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Schedule entries found", "schedules": entries})
}

// UpdateSchedule applies a partial patch to an entry. Changing the date
// requires resupplying both clock times so the interval stays coherent.
func UpdateSchedule(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unknown caller")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid schedule entry ID format")
		return
	}

	var input UpdateScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	patch := services.UpdateEntryInput{
		ServiceID:   input.ServiceID,
		Description: input.Description,
	}

	if input.Date != nil {
		if input.StartTime == nil || input.EndTime == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "A date change requires both start and end times")
			return
		}
	}
	if input.StartTime != nil || input.EndTime != nil {
		if input.Date == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "A time change requires the date")
			return
		}
		var start, end time.Time
		if input.StartTime != nil {
			if start, err = utils.CombineDateTime(*input.Date, *input.StartTime); err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid date or start time")
				return
			}
			patch.StartTime = &start
		}
		if input.EndTime != nil {
			if end, err = utils.CombineDateTime(*input.Date, *input.EndTime); err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid date or end time")
				return
			}
			patch.EndTime = &end
		}
	}

	entry, err := services.NewScheduleService(config.DB).UpdateEntry(scope, entryID, patch)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Schedule entry updated successfully", "schedule": entry})
}

// DeleteSchedule removes an entry, freeing its slot. The linked service
// stays in whatever status it had.
func DeleteSchedule(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid schedule entry ID format")
		return
	}

	if err := services.NewScheduleService(config.DB).DeleteEntry(entryID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Schedule entry deleted successfully"})
}
