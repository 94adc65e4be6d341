package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

// registerOrganizationHandler creates a tenant root and hands back a token
// scoped to it. Registration is the only unauthenticated mutation.
func registerOrganizationHandler(c *gin.Context) {
	logger := config.GetLogger()

	var input models.NewOrganization
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	organization, err := models.CreateOrganization(c.Request.Context(), &input)
	if err != nil {
		config.LogError(logger, "organizations.go", "registerOrganizationHandler", "CreateOrganization", input.Name, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.JwtGenerate(0, organization.ID.String(), "Admin")
	if err != nil {
		config.LogError(logger, "organizations.go", "registerOrganizationHandler", "JwtGenerate", organization.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"organization": organization,
		"token":        token,
	})
}
