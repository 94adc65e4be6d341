package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

// createActivityHandler is the single-entity path: an unresolvable
// reference is a request-level 404, unlike the bulk path where it is a
// row-level error.
func createActivityHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewActivity
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := models.CreateActivity(c.Request.Context(), &input)
	if err != nil {
		if strings.HasSuffix(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	models.WriteAuditLog(c.Request.Context(), "CREATE", "Activity", strconv.Itoa(activity.ID), auditMetaFromRequest(c))
	c.JSON(http.StatusCreated, activity)
}

func getActivitiesHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	projectId, _ := strconv.Atoi(c.Query("projectId"))
	activities, err := models.GetActivities(c.Request.Context(), projectId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, activities)
}

// bulkCreateActivitiesHandler is the partial-failure batch path. The
// response is 200 even when every row failed; only a missing session,
// an empty batch or a top-level failure produce non-200.
func bulkCreateActivitiesHandler(c *gin.Context) {
	logger := config.GetLogger()

	organizationId, ok := utils.GetOrganizationIdFromContext(c.Request.Context())
	if !ok || organizationId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// rows arrive wrapped: {"activities": [...]}; a missing or non-array
	// field reads as "nothing to process"
	var body struct {
		Activities []*models.NewActivity `json:"activities"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Activities) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No activities provided"})
		return
	}

	result, err := models.BulkCreateActivities(c.Request.Context(), body.Activities, auditMetaFromRequest(c))
	if err != nil {
		config.LogError(logger, "activities.go", "bulkCreateActivitiesHandler", "BulkCreateActivities", len(body.Activities), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"successCount": result.SuccessCount,
		"errors":       result.Errors,
		"created":      result.Created,
	})
}
