package models_test

import (
	"testing"

	"github.com/impactlens/mne_backend/models"
)

// A bad row must not stop later rows, and its reported row number is the
// spreadsheet position (data starts at row 2).
func TestBulkCreateActivitiesPartialFailure(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Bulk NGO")
	fw := seedFramework(t, ctx)

	inputs := []*models.NewActivity{
		{
			ProjectId:      fw.ProjectId,
			ObjectiveId:    fw.ObjectiveId,
			InterventionId: fw.InterventionId,
			Name:           "Check dam construction",
		},
		{
			// name missing
			ProjectId:      fw.ProjectId,
			ObjectiveId:    fw.ObjectiveId,
			InterventionId: fw.InterventionId,
		},
		{
			// dangling intervention
			ProjectId:      fw.ProjectId,
			ObjectiveId:    fw.ObjectiveId,
			InterventionId: 99999,
			Name:           "Farm bunding",
		},
		{
			ProjectId:      fw.ProjectId,
			ObjectiveId:    fw.ObjectiveId,
			InterventionId: fw.InterventionId,
			Name:           "Well recharge",
		},
	}

	result, err := models.BulkCreateActivities(ctx, inputs, models.AuditMeta{})
	if err != nil {
		t.Fatalf("BulkCreateActivities: %v", err)
	}

	if result.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2 (%s)", result.SuccessCount, result.Summary())
	}
	if len(result.Created) != 2 {
		t.Errorf("len(Created) = %d, want 2", len(result.Created))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2: %+v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].Row != 3 || result.Errors[0].Error != models.ErrMissingRequiredFields {
		t.Errorf("first error = %+v, want row 3 %q", result.Errors[0], models.ErrMissingRequiredFields)
	}
	if result.Errors[1].Row != 4 || result.Errors[1].Error != "Intervention not found" {
		t.Errorf("second error = %+v, want row 4 Intervention not found", result.Errors[1])
	}

	activities, err := models.GetActivities(ctx, fw.ProjectId)
	if err != nil {
		t.Fatalf("GetActivities: %v", err)
	}
	if len(activities) != 2 {
		t.Errorf("persisted %d activities, want 2", len(activities))
	}
}

// Shuffling independent rows changes error row numbers but not the
// success/error totals.
func TestBulkCreateActivitiesOrderIndependence(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Order NGO")
	fw := seedFramework(t, ctx)

	good := func(name string) *models.NewActivity {
		return &models.NewActivity{
			ProjectId:      fw.ProjectId,
			ObjectiveId:    fw.ObjectiveId,
			InterventionId: fw.InterventionId,
			Name:           name,
		}
	}
	bad := &models.NewActivity{ProjectId: fw.ProjectId}

	forward := []*models.NewActivity{good("A"), bad, good("B")}
	result1, err := models.BulkCreateActivities(ctx, forward, models.AuditMeta{})
	if err != nil {
		t.Fatalf("forward batch: %v", err)
	}

	reversed := []*models.NewActivity{good("C"), good("D"), bad}
	result2, err := models.BulkCreateActivities(ctx, reversed, models.AuditMeta{})
	if err != nil {
		t.Fatalf("reversed batch: %v", err)
	}

	if result1.SuccessCount != result2.SuccessCount {
		t.Errorf("success counts differ: %d vs %d", result1.SuccessCount, result2.SuccessCount)
	}
	if len(result1.Errors) != 1 || len(result2.Errors) != 1 {
		t.Fatalf("error counts: %d and %d, want 1 each", len(result1.Errors), len(result2.Errors))
	}
	if result1.Errors[0].Row != 3 {
		t.Errorf("forward error row = %d, want 3", result1.Errors[0].Row)
	}
	if result2.Errors[0].Row != 4 {
		t.Errorf("reversed error row = %d, want 4", result2.Errors[0].Row)
	}
}

// Single-entity creation rejects dangling references outright instead of
// collecting row errors.
func TestCreateActivityReferencePolicy(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Single NGO")
	fw := seedFramework(t, ctx)

	_, err := models.CreateActivity(ctx, &models.NewActivity{
		ProjectId:      fw.ProjectId,
		ObjectiveId:    fw.ObjectiveId,
		InterventionId: 424242,
		Name:           "Orphan activity",
	})
	if err == nil || err.Error() != "Intervention not found" {
		t.Fatalf("err = %v, want Intervention not found", err)
	}
}
