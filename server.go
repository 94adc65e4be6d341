package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/middlewares"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("mne-backend")

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// auditMetaFromRequest captures the caller's network identity for the
// audit trail.
func auditMetaFromRequest(c *gin.Context) models.AuditMeta {
	return models.AuditMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func registerRoutes(r *gin.Engine) {
	r.POST("/organizations/register", registerOrganizationHandler)

	r.POST("/programs", createProgramHandler)
	r.GET("/programs", getProgramsHandler)
	r.GET("/programs/:id", getProgramByIdHandler)
	r.POST("/projects", createProjectHandler)
	r.GET("/projects", getProjectsHandler)
	r.GET("/projects/:id", getProjectByIdHandler)
	r.POST("/objectives", createObjectiveHandler)
	r.GET("/objectives", getObjectivesHandler)
	r.PUT("/objectives/reorder", reorderObjectivesHandler)
	r.DELETE("/objectives/:id", deleteObjectiveHandler)
	r.POST("/indicators", createIndicatorHandler)
	r.GET("/indicators", getIndicatorsHandler)
	r.POST("/organization-indicators", createOrganizationIndicatorHandler)
	r.GET("/organization-indicators", getOrganizationIndicatorsHandler)

	r.POST("/activities", createActivityHandler)
	r.GET("/activities", getActivitiesHandler)
	r.POST("/activities/bulk", bulkCreateActivitiesHandler)
	r.POST("/intervention/bulk", bulkCreateInterventionsHandler)
	// legacy plural alias
	r.POST("/interventions/bulk", bulkCreateInterventionsHandler)
	r.GET("/interventions", getInterventionsHandler)

	r.POST("/states", createStateHandler)
	r.GET("/states", getStatesHandler)
	r.POST("/districts", createDistrictHandler)
	r.GET("/districts", getDistrictsHandler)
	r.POST("/blocks", createBlockHandler)
	r.GET("/blocks", getBlocksHandler)
	r.POST("/gramPanchayats", createGramPanchayatHandler)
	r.GET("/gramPanchayats", getGramPanchayatsHandler)
	r.POST("/villages", createVillageHandler)
	r.GET("/villages", getVillagesHandler)

	r.POST("/intervention-areas", createInterventionAreaHandler)
	r.GET("/intervention-areas", getInterventionAreasHandler)
	r.DELETE("/intervention-areas/:id", deleteInterventionAreaHandler)
	r.POST("/plans", createPlanHandler)
	r.GET("/plans", getPlansHandler)
	r.POST("/reports", createReportHandler)
	r.GET("/reports", getReportsHandler)

	r.GET("/org-dashboard/performance-indicators", performanceIndicatorsHandler)
	r.GET("/org-dashboard/plan-progress", planProgressHandler)

	r.POST("/ai/seed-framework", seedFrameworkHandler)
	r.POST("/ai/seed-locations", seedLocationsHandler)
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy. Until the DB is ready, app endpoints return 503.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Redis is optional (cache + best-effort locks only); gate on the DB.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated); otherwise allow all for developer convenience.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger logs only requests that errored.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.WithFields(logrus.Fields{
				"status": c.Writer.Status(),
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).Error(c.Errors.String())
		}
	}
}
