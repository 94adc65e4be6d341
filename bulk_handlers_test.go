package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

type bulkFixture struct {
	ProgramId      int
	ProjectId      int
	ObjectiveId    int
	InterventionId int
}

// newBulkTestRouter boots a sqlite-backed engine with a fixed tenant
// session on every request, standing in for the auth middleware.
func newBulkTestRouter(t *testing.T) (*gin.Engine, bulkFixture) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "mne_handlers_test.db"))
	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	ctx := context.Background()
	org, err := models.CreateOrganization(ctx, &models.NewOrganization{
		Name:  "Upload NGO",
		Email: "owner@upload-ngo.test",
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	ctx = utils.SetOrganizationIdInContext(ctx, org.ID.String())
	ctx = utils.SetUserIdInContext(ctx, 1)

	program, err := models.CreateProgram(ctx, &models.NewProgram{Name: "Water Security"})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	project, err := models.CreateProject(ctx, &models.NewProject{
		Name:       "Watershed Restoration",
		ProgramIds: []int{program.ID},
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	objective, err := models.CreateObjective(ctx, &models.NewObjective{
		Statement: "Improve groundwater availability",
		Level:     models.ObjectiveLevelOutcome,
		ProgramId: &program.ID,
	})
	if err != nil {
		t.Fatalf("CreateObjective: %v", err)
	}
	seeded, err := models.BulkCreateInterventions(ctx, []*models.NewBulkIntervention{
		{Name: "Pond rejuvenation", ObjectiveId: objective.ID, ProgramId: program.ID},
	}, models.AuditMeta{})
	if err != nil || len(seeded.Created) != 1 {
		t.Fatalf("seed intervention: %v (%+v)", err, seeded)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	organizationId := org.ID.String()
	r.Use(func(c *gin.Context) {
		reqCtx := utils.SetOrganizationIdInContext(c.Request.Context(), organizationId)
		reqCtx = utils.SetUserIdInContext(reqCtx, 1)
		c.Request = c.Request.WithContext(reqCtx)
		c.Next()
	})
	registerRoutes(r)

	return r, bulkFixture{
		ProgramId:      program.ID,
		ProjectId:      project.ID,
		ObjectiveId:    objective.ID,
		InterventionId: seeded.Created[0].ID,
	}
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

// The activity upload wraps its rows in an object, {"activities": [...]},
// and a well-formed batch must come back 200 with per-row results.
func TestBulkActivitiesUploadAcceptsWrappedRows(t *testing.T) {
	r, fw := newBulkTestRouter(t)

	body, _ := json.Marshal(gin.H{
		"activities": []gin.H{
			{
				"projectId":      fw.ProjectId,
				"objectiveId":    fw.ObjectiveId,
				"interventionId": fw.InterventionId,
				"name":           "Desilt village pond",
			},
		},
	})
	w := postJSON(t, r, "/activities/bulk", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s, want 200", w.Code, w.Body.String())
	}
	payload := decodeBody(t, w)
	if got, _ := payload["successCount"].(float64); got != 1 {
		t.Errorf("successCount = %v, want 1", payload["successCount"])
	}
}

func TestBulkActivitiesUploadRejectsEmptyBatch(t *testing.T) {
	r, _ := newBulkTestRouter(t)

	for _, body := range []string{`{"activities": []}`, `{}`, `{"activities": "nope"}`} {
		w := postJSON(t, r, "/activities/bulk", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
			continue
		}
		payload := decodeBody(t, w)
		if payload["error"] != "No activities provided" {
			t.Errorf("body %s: error = %v, want No activities provided", body, payload["error"])
		}
	}
}

// The matrix upload lives at /intervention/bulk and wraps its rows as
// {"interventions": [...]}.
func TestBulkInterventionsUploadRouteAndBody(t *testing.T) {
	r, fw := newBulkTestRouter(t)

	body, _ := json.Marshal(gin.H{
		"interventions": []gin.H{
			{
				"name":        "Soil conservation",
				"objectiveId": fw.ObjectiveId,
				"programId":   fw.ProgramId,
				"subInterventions": []gin.H{
					{"name": "Contour trenching"},
				},
			},
		},
	})
	w := postJSON(t, r, "/intervention/bulk", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s, want 200", w.Code, w.Body.String())
	}
	payload := decodeBody(t, w)
	if got, _ := payload["successCount"].(float64); got != 1 {
		t.Errorf("successCount = %v, want 1", payload["successCount"])
	}

	w = postJSON(t, r, "/intervention/bulk", `{"interventions": []}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", w.Code)
	}
}
