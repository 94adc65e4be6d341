package main

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/aigen"
	"github.com/impactlens/mne_backend/config"
)

var (
	generatorOnce sync.Once
	generator     aigen.Generator
	generatorErr  error
)

// getGenerator lazily builds the Gemini client so the server starts fine
// without an API key; seeding endpoints then report 503.
func getGenerator(c *gin.Context) (aigen.Generator, bool) {
	generatorOnce.Do(func() {
		generator, generatorErr = aigen.NewGeminiGenerator(c.Request.Context())
	})
	if generatorErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI seeding is not configured"})
		return nil, false
	}
	return generator, true
}

func seedFrameworkHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	gen, ok := getGenerator(c)
	if !ok {
		return
	}
	var request aigen.FrameworkSeedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := aigen.SeedFramework(c.Request.Context(), gen, &request)
	if err != nil {
		config.LogError(config.GetLogger(), "aiseed.go", "seedFrameworkHandler", "SeedFramework", request.Sector, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed framework"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func seedLocationsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	gen, ok := getGenerator(c)
	if !ok {
		return
	}
	var request aigen.LocationSeedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := aigen.SeedLocations(c.Request.Context(), gen, &request)
	if err != nil {
		config.LogError(config.GetLogger(), "aiseed.go", "seedLocationsHandler", "SeedLocations", request.DistrictName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed locations"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
