package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

func createReportHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	var input models.NewReport
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := models.CreateReport(c.Request.Context(), &input)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	models.WriteAuditLog(c.Request.Context(), "CREATE", "Report", strconv.Itoa(report.ID), auditMetaFromRequest(c))
	c.JSON(http.StatusCreated, report)
}

func getReportsHandler(c *gin.Context) {
	if !requireOrganization(c) {
		return
	}
	activityId, _ := strconv.Atoi(c.Query("activityId"))
	reports, err := models.GetReports(c.Request.Context(), activityId, c.Query("year"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}
