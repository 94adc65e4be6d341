package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

// bulkCreateInterventionsHandler ingests the intervention matrix upload.
// Rows referencing the same (objective, program, name) share one
// intervention; sub-interventions expand to one row per linked indicator.
func bulkCreateInterventionsHandler(c *gin.Context) {
	logger := config.GetLogger()

	organizationId, ok := utils.GetOrganizationIdFromContext(c.Request.Context())
	if !ok || organizationId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// rows arrive wrapped: {"interventions": [...]}; a missing or non-array
	// field reads as "nothing to process"
	var body struct {
		Interventions []*models.NewBulkIntervention `json:"interventions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Interventions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No interventions provided"})
		return
	}

	result, err := models.BulkCreateInterventions(c.Request.Context(), body.Interventions, auditMetaFromRequest(c))
	if err != nil {
		config.LogError(logger, "interventions.go", "bulkCreateInterventionsHandler", "BulkCreateInterventions", len(body.Interventions), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create interventions"})
		return
	}

	response := gin.H{
		"message":      fmt.Sprintf("Processed %d rows", len(body.Interventions)),
		"successCount": result.SuccessCount,
	}
	if len(result.Errors) > 0 {
		response["errors"] = result.Errors
	}
	c.JSON(http.StatusOK, response)
}

func getInterventionsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	objectiveId, _ := strconv.Atoi(c.Query("objectiveId"))
	interventions, err := models.GetInterventions(c.Request.Context(), objectiveId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, interventions)
}
