package models_test

import (
	"testing"

	"github.com/impactlens/mne_backend/models"
)

// Serial numbers count up per project and survive deletes: removing the
// newest area must not free its number for the next create.
func TestInterventionAreaSerialNumbers(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Serial NGO")
	fw := seedFramework(t, ctx)

	var areas []*models.InterventionArea
	for i := 0; i < 3; i++ {
		area, err := models.CreateInterventionArea(ctx, &models.NewInterventionArea{ProjectId: fw.ProjectId})
		if err != nil {
			t.Fatalf("CreateInterventionArea %d: %v", i, err)
		}
		areas = append(areas, area)
		if area.SerialNumber != i+1 {
			t.Errorf("serial = %d, want %d", area.SerialNumber, i+1)
		}
	}

	if err := models.DeleteInterventionArea(ctx, areas[2].ID); err != nil {
		t.Fatalf("DeleteInterventionArea: %v", err)
	}

	area, err := models.CreateInterventionArea(ctx, &models.NewInterventionArea{ProjectId: fw.ProjectId})
	if err != nil {
		t.Fatalf("CreateInterventionArea after delete: %v", err)
	}
	if area.SerialNumber != 4 {
		t.Errorf("serial after delete = %d, want 4 (3 must stay retired)", area.SerialNumber)
	}

	listed, err := models.GetInterventionAreas(ctx, fw.ProjectId)
	if err != nil {
		t.Fatalf("GetInterventionAreas: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("listed %d areas, want 3", len(listed))
	}
}

// Serials are per project, not per tenant.
func TestInterventionAreaSerialPerProject(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "PerProject NGO")
	fw := seedFramework(t, ctx)

	other, err := models.CreateProject(ctx, &models.NewProject{Name: "Second Project"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	first, err := models.CreateInterventionArea(ctx, &models.NewInterventionArea{ProjectId: fw.ProjectId})
	if err != nil {
		t.Fatalf("CreateInterventionArea: %v", err)
	}
	second, err := models.CreateInterventionArea(ctx, &models.NewInterventionArea{ProjectId: other.ID})
	if err != nil {
		t.Fatalf("CreateInterventionArea: %v", err)
	}
	if first.SerialNumber != 1 || second.SerialNumber != 1 {
		t.Errorf("serials = %d and %d, want 1 and 1", first.SerialNumber, second.SerialNumber)
	}
}

func TestInterventionAreaLocationValidation(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "LocVal NGO")
	fw := seedFramework(t, ctx)

	missing := 31337
	_, err := models.CreateInterventionArea(ctx, &models.NewInterventionArea{
		ProjectId: fw.ProjectId,
		StateId:   &missing,
	})
	if err == nil || err.Error() != "State not found" {
		t.Fatalf("err = %v, want State not found", err)
	}
}
