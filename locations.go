package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

// Location handlers follow one policy: a duplicate (name, parent) pair is
// a 400, a missing parent is a 404.

func locationCreateError(c *gin.Context, err error, parentLabel string) {
	switch err {
	case models.ErrorDuplicateLocation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case utils.ErrorRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": parentLabel + " not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func createStateHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, err := models.CreateState(c.Request.Context(), input.Name)
	if err != nil {
		locationCreateError(c, err, "State")
		return
	}
	c.JSON(http.StatusCreated, state)
}

func getStatesHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	states, err := models.GetStates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, states)
}

func createDistrictHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input struct {
		StateId int    `json:"state_id" binding:"required"`
		Name    string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	district, err := models.CreateDistrict(c.Request.Context(), input.StateId, input.Name)
	if err != nil {
		locationCreateError(c, err, "State")
		return
	}
	c.JSON(http.StatusCreated, district)
}

func getDistrictsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	stateId, _ := strconv.Atoi(c.Query("stateId"))
	districts, err := models.GetDistricts(c.Request.Context(), stateId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, districts)
}

func createBlockHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input struct {
		DistrictId int    `json:"district_id" binding:"required"`
		Name       string `json:"name" binding:"required"`
		AreaType   string `json:"area_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	areaType, ok := models.ParseAreaType(input.AreaType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area_type must be RURAL or URBAN"})
		return
	}
	block, err := models.CreateBlock(c.Request.Context(), input.DistrictId, input.Name, areaType)
	if err != nil {
		locationCreateError(c, err, "District")
		return
	}
	c.JSON(http.StatusCreated, block)
}

func getBlocksHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	districtId, _ := strconv.Atoi(c.Query("districtId"))
	blocks, err := models.GetBlocks(c.Request.Context(), districtId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func createGramPanchayatHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input struct {
		BlockId int    `json:"block_id" binding:"required"`
		Name    string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	panchayat, err := models.CreateGramPanchayat(c.Request.Context(), input.BlockId, input.Name)
	if err != nil {
		locationCreateError(c, err, "Block")
		return
	}
	c.JSON(http.StatusCreated, panchayat)
}

func getGramPanchayatsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	blockId, _ := strconv.Atoi(c.Query("blockId"))
	panchayats, err := models.GetGramPanchayats(c.Request.Context(), blockId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, panchayats)
}

func createVillageHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input struct {
		GramPanchayatId int    `json:"gram_panchayat_id" binding:"required"`
		Name            string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	village, err := models.CreateVillage(c.Request.Context(), input.GramPanchayatId, input.Name)
	if err != nil {
		locationCreateError(c, err, "Gram panchayat")
		return
	}
	c.JSON(http.StatusCreated, village)
}

func getVillagesHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	gramPanchayatId, _ := strconv.Atoi(c.Query("gramPanchayatId"))
	villages, err := models.GetVillages(c.Request.Context(), gramPanchayatId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, villages)
}
