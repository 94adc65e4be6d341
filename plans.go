package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

func createInterventionAreaHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewInterventionArea
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, err := models.CreateInterventionArea(c.Request.Context(), &input)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, area)
}

func getInterventionAreasHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	projectId, _ := strconv.Atoi(c.Query("projectId"))
	areas, err := models.GetInterventionAreas(c.Request.Context(), projectId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, areas)
}

func deleteInterventionAreaHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.DeleteInterventionArea(c.Request.Context(), id); err != nil {
		if err == utils.ErrorRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Intervention area not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func createPlanHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewPlan
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan, err := models.CreatePlan(c.Request.Context(), &input)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func getPlansHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	activityId, _ := strconv.Atoi(c.Query("activityId"))
	plans, err := models.GetPlans(c.Request.Context(), activityId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plans)
}
