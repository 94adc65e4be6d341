package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

// Handlers for the framework hierarchy: programs, projects, objectives,
// indicators. All of them require a tenant-scoped session.

func requireOrganization(c *gin.Context) bool {
	organizationId, ok := utils.GetOrganizationIdFromContext(c.Request.Context())
	if !ok || organizationId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func createProgramHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewProgram
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	program, err := models.CreateProgram(c.Request.Context(), &input)
	if err != nil {
		config.LogError(config.GetLogger(), "hierarchy.go", "createProgramHandler", "CreateProgram", input.Name, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, program)
}

func getProgramsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	programs, err := models.GetPrograms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, programs)
}

func getProgramByIdHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	id, ok := pathId(c)
	if !ok {
		return
	}
	program, err := models.GetProgramById(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}
	c.JSON(http.StatusOK, program)
}

func createProjectHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		config.LogError(config.GetLogger(), "hierarchy.go", "createProjectHandler", "CreateProject", input.Name, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func getProjectsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	projects, err := models.GetProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func getProjectByIdHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	id, ok := pathId(c)
	if !ok {
		return
	}
	project, err := models.GetProjectById(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func createObjectiveHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewObjective
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	objective, err := models.CreateObjective(c.Request.Context(), &input)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program or project not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, objective)
}

func getObjectivesHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	objectives, err := models.GetObjectives(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, objectives)
}

func reorderObjectivesHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input struct {
		OrderedIds []int `json:"ordered_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.ReorderObjectives(c.Request.Context(), input.OrderedIds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func deleteObjectiveHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.DeleteObjective(c.Request.Context(), id); err != nil {
		if err == utils.ErrorRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Objective not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func createIndicatorHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewIndicator
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	indicator, err := models.CreateIndicator(c.Request.Context(), &input)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Objective not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, indicator)
}

func getIndicatorsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	indicators, err := models.GetIndicators(c.Request.Context(), c.DefaultQuery("indicatorType", "all"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, indicators)
}

func createOrganizationIndicatorHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	// org-wide indicators have no objective, so skip NewIndicator's
	// objective binding
	var input struct {
		Name          string               `json:"name" binding:"required"`
		Type          models.IndicatorType `json:"type"`
		Frequency     models.Frequency     `json:"frequency"`
		UnitOfMeasure string               `json:"unit_of_measure"`
		BaselineValue string               `json:"baseline_value"`
		Target        string               `json:"target"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	indicator, err := models.CreateOrganizationIndicator(c.Request.Context(), &models.NewIndicator{
		Name:          input.Name,
		Type:          input.Type,
		Frequency:     input.Frequency,
		UnitOfMeasure: input.UnitOfMeasure,
		BaselineValue: input.BaselineValue,
		Target:        input.Target,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, indicator)
}

func getOrganizationIndicatorsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	indicators, err := models.GetOrganizationIndicators(c.Request.Context(), c.DefaultQuery("indicatorType", "all"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, indicators)
}
