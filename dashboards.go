package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/models"
)

func performanceIndicatorsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	rows, err := models.GetIndicatorPerformance(c.Request.Context(), c.DefaultQuery("indicatorType", "all"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func planProgressHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	filter := &models.PlanProgressFilter{
		DonorName: c.Query("donorId"),
		RagRating: models.RagStatus(c.Query("ragRating")),
	}
	if v := c.Query("projectId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.ProjectId = &id
		}
	}
	if v := c.Query("programId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.ProgramId = &id
		}
	}
	if v := c.Query("objectiveId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.ObjectiveId = &id
		}
	}
	if v := c.Query("interventionAreaId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.InterventionAreaId = &id
		}
	}

	rows, err := models.GetPlanProgress(c.Request.Context(), filter, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
