package models_test

import (
	"testing"
	"time"

	"github.com/impactlens/mne_backend/models"
)

func TestIndicatorPerformanceRagRating(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Perf NGO")
	fw := seedFramework(t, ctx)

	indicatorId := fw.IndicatorId
	activity, err := models.CreateActivity(ctx, &models.NewActivity{
		ProjectId:      fw.ProjectId,
		ObjectiveId:    fw.ObjectiveId,
		InterventionId: fw.InterventionId,
		IndicatorId:    &indicatorId,
		Name:           "Pond desilting",
	})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	area, err := models.CreateInterventionArea(ctx, &models.NewInterventionArea{ProjectId: fw.ProjectId})
	if err != nil {
		t.Fatalf("CreateInterventionArea: %v", err)
	}
	// indicator target is 100; 25 achieved is amber on the indicator view
	_, err = models.CreateReport(ctx, &models.NewReport{
		ActivityId:         activity.ID,
		InterventionAreaId: area.ID,
		UnitReported:       25,
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	rows, err := models.GetIndicatorPerformance(ctx, "all")
	if err != nil {
		t.Fatalf("GetIndicatorPerformance: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Achieved != 25 {
		t.Errorf("Achieved = %v, want 25", row.Achieved)
	}
	if row.RagRating != models.RagAmber {
		t.Errorf("RagRating = %s, want amber (scheme A puts exactly 25%% in amber)", row.RagRating)
	}
	if row.Program != "Water Security" {
		t.Errorf("Program = %q", row.Program)
	}
}

// programId without projectId expands to every project under the program;
// the donor filter matches against project funding.
func TestPlanProgressFilters(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Filter NGO")
	fw := seedFramework(t, ctx)

	activity, err := models.CreateActivity(ctx, &models.NewActivity{
		ProjectId:      fw.ProjectId,
		ObjectiveId:    fw.ObjectiveId,
		InterventionId: fw.InterventionId,
		Name:           "Bund repair",
		TargetUnit:     10,
	})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	// an unrelated project outside the program
	outside, err := models.CreateProject(ctx, &models.NewProject{Name: "Unrelated"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := models.CreateActivity(ctx, &models.NewActivity{
		ProjectId:      outside.ID,
		ObjectiveId:    fw.ObjectiveId,
		InterventionId: fw.InterventionId,
		Name:           "Outside activity",
	}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	byProgram := &models.PlanProgressFilter{ProgramId: &fw.ProgramId}
	rows, err := models.GetPlanProgress(ctx, byProgram, asOf)
	if err != nil {
		t.Fatalf("GetPlanProgress: %v", err)
	}
	if len(rows) != 1 || rows[0].ActivityId != activity.ID {
		t.Fatalf("program filter rows = %+v, want just the in-program activity", rows)
	}

	byDonor := &models.PlanProgressFilter{DonorName: "Acme Trust"}
	rows, err = models.GetPlanProgress(ctx, byDonor, asOf)
	if err != nil {
		t.Fatalf("GetPlanProgress: %v", err)
	}
	if len(rows) != 1 || rows[0].ActivityId != activity.ID {
		t.Fatalf("donor filter rows = %d, want 1", len(rows))
	}

	noMatch := &models.PlanProgressFilter{DonorName: "Nobody"}
	rows, err = models.GetPlanProgress(ctx, noMatch, asOf)
	if err != nil {
		t.Fatalf("GetPlanProgress: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("unknown donor matched %d rows", len(rows))
	}

	// no plans and no reports: gray, annual target passes through
	if got := models.ClassifyRagScoreB(0, 0); got != models.RagGray {
		t.Errorf("no-plan rating = %s, want gray", got)
	}
}
