package models_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

// setupTestDB points the global connection at a throwaway sqlite file and
// migrates the schema. Each test gets its own file so tests stay
// independent without docker.
func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "mne_test.db"))
	config.ConnectDatabaseWithRetry()
	models.MigrateTable()
}

var tenantSeq int

// newTenantContext registers a fresh organization and returns a context
// scoped to it, the way the auth middleware would build one.
func newTenantContext(t *testing.T, name string) context.Context {
	t.Helper()
	tenantSeq++
	ctx := context.Background()
	org, err := models.CreateOrganization(ctx, &models.NewOrganization{
		Name:  name,
		Email: fmt.Sprintf("owner%d@%s.test", tenantSeq, "impactlens"),
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	ctx = utils.SetOrganizationIdInContext(ctx, org.ID.String())
	ctx = utils.SetUserIdInContext(ctx, 1)
	return ctx
}

// framework is the minimal hierarchy an activity needs.
type framework struct {
	ProgramId      int
	ProjectId      int
	ObjectiveId    int
	IndicatorId    int
	InterventionId int
}

func seedFramework(t *testing.T, ctx context.Context) framework {
	t.Helper()

	program, err := models.CreateProgram(ctx, &models.NewProgram{Name: "Water Security"})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	project, err := models.CreateProject(ctx, &models.NewProject{
		Name:       "Watershed Restoration",
		ProgramIds: []int{program.ID},
		Fundings:   []*models.NewFunding{{DonorName: "Acme Trust"}},
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
	indicator, err := models.CreateIndicator(ctx, &models.NewIndicator{
		ObjectiveId: objective.ID,
		Name:        "Ponds rejuvenated",
		Type:        models.IndicatorTypeOutput,
		Target:      "100",
	})
	if err != nil {
		t.Fatalf("CreateIndicator: %v", err)
	}

	result, err := models.BulkCreateInterventions(ctx, []*models.NewBulkIntervention{
		{Name: "Pond rejuvenation", ObjectiveId: objective.ID, ProgramId: program.ID},
	}, models.AuditMeta{})
	if err != nil {
		t.Fatalf("BulkCreateInterventions: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("expected 1 intervention created, got %d (%s)", len(result.Created), result.Summary())
	}

	return framework{
		ProgramId:      program.ID,
		ProjectId:      project.ID,
		ObjectiveId:    objective.ID,
		IndicatorId:    indicator.ID,
		InterventionId: result.Created[0].ID,
	}
}
