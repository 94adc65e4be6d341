package models_test

import (
	"testing"
	"time"

	"github.com/impactlens/mne_backend/models"
)

// The reporting year runs April through March and is named for the
// calendar year it starts in.
func TestReportingYearBoundary(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-03-15", "FY23"},
		{"2024-03-31", "FY23"},
		{"2024-04-01", "FY24"},
		{"2024-12-31", "FY24"},
		{"2025-01-15", "FY24"},
		{"2009-06-01", "FY09"},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := models.ReportingYear(d); got != tc.want {
			t.Errorf("ReportingYear(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestMonthlyTargetsCumulative(t *testing.T) {
	targets := models.MonthlyTargets{
		"2024-04": 10,
		"2024-05": 20,
		"2024-06": 30,
		"2025-01": 40,
	}
	if err := targets.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := targets.Total(); got != 100 {
		t.Errorf("Total = %v, want 100", got)
	}
	cases := []struct {
		through string
		want    float64
	}{
		{"2024-03", 0},
		{"2024-04", 10},
		{"2024-05", 30},
		{"2024-12", 60},
		{"2025-01", 100},
		{"2026-01", 100},
	}
	for _, tc := range cases {
		if got := targets.CumulativeThrough(tc.through); got != tc.want {
			t.Errorf("CumulativeThrough(%s) = %v, want %v", tc.through, got, tc.want)
		}
	}
}

func TestMonthlyTargetsValidate(t *testing.T) {
	bad := []models.MonthlyTargets{
		{"2024-13": 1},
		{"202404": 1},
		{"2024-04-01": 1},
		{"2024-04": -1},
	}
	for _, targets := range bad {
		if err := targets.Validate(); err == nil {
			t.Errorf("Validate(%v) accepted invalid targets", targets)
		}
	}
}

// Life-of-project sums every plan target; YTD sums only months up to the
// as-of month; achieved/ytdProgress come from persisted reports.
func TestAggregateActivityProgress(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Progress NGO")
	fw := seedFramework(t, ctx)

	activity, err := models.CreateActivity(ctx, &models.NewActivity{
		ProjectId:      fw.ProjectId,
		ObjectiveId:    fw.ObjectiveId,
		InterventionId: fw.InterventionId,
		Name:           "Desilting",
		TargetUnit:     500,
	})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	area, err := models.CreateInterventionArea(ctx, &models.NewInterventionArea{ProjectId: fw.ProjectId})
	if err != nil {
		t.Fatalf("CreateInterventionArea: %v", err)
	}
	_, err = models.CreatePlan(ctx, &models.NewPlan{
		ActivityId:         activity.ID,
		InterventionAreaId: area.ID,
		MonthlyTargets: models.MonthlyTargets{
			"2024-04": 100,
			"2024-05": 100,
			"2024-09": 100,
		},
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	asOf := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	unit := 40.0
	for _, year := range []string{"FY24", "FY24", "FY23"} {
		_, err := models.CreateReport(ctx, &models.NewReport{
			ActivityId:         activity.ID,
			InterventionAreaId: area.ID,
			UnitReported:       unit,
			Year:               year,
		})
		if err != nil {
			t.Fatalf("CreateReport: %v", err)
		}
	}

	progress, err := models.AggregateActivityProgress(ctx, activity, asOf)
	if err != nil {
		t.Fatalf("AggregateActivityProgress: %v", err)
	}
	if progress.LifeOfProjectTarget != 300 {
		t.Errorf("LifeOfProjectTarget = %v, want 300", progress.LifeOfProjectTarget)
	}
	if progress.YtdPlan != 200 {
		t.Errorf("YtdPlan = %v, want 200", progress.YtdPlan)
	}
	if progress.AnnualTarget != 500 {
		t.Errorf("AnnualTarget = %v, want 500", progress.AnnualTarget)
	}
	if progress.AchievedValue != 120 {
		t.Errorf("AchievedValue = %v, want 120", progress.AchievedValue)
	}
	// only the two FY24 reports count toward the year containing asOf
	if progress.YtdProgress != 80 {
		t.Errorf("YtdProgress = %v, want 80", progress.YtdProgress)
	}
}

// With no plan targets the activity's own annual target stands in for the
// life-of-project figure.
func TestAggregateActivityProgressFallback(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Fallback NGO")
	fw := seedFramework(t, ctx)

	activity, err := models.CreateActivity(ctx, &models.NewActivity{
		ProjectId:      fw.ProjectId,
		ObjectiveId:    fw.ObjectiveId,
		InterventionId: fw.InterventionId,
		Name:           "Tree planting",
		TargetUnit:     75,
	})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	progress, err := models.AggregateActivityProgress(ctx, activity, time.Now())
	if err != nil {
		t.Fatalf("AggregateActivityProgress: %v", err)
	}
	if progress.LifeOfProjectTarget != 75 {
		t.Errorf("LifeOfProjectTarget = %v, want 75", progress.LifeOfProjectTarget)
	}
}
