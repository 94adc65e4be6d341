package models_test

import (
	"testing"

	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

func TestLocationHierarchyValidation(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Location NGO")

	state, err := models.CreateState(ctx, "Jharkhand")
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}
	district, err := models.CreateDistrict(ctx, state.ID, "Ranchi")
	if err != nil {
		t.Fatalf("CreateDistrict: %v", err)
	}
	block, err := models.CreateBlock(ctx, district.ID, "Kanke", models.AreaTypeRural)
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	panchayat, err := models.CreateGramPanchayat(ctx, block.ID, "Sutiambe")
	if err != nil {
		t.Fatalf("CreateGramPanchayat: %v", err)
	}
	if _, err := models.CreateVillage(ctx, panchayat.ID, "Chutupalu"); err != nil {
		t.Fatalf("CreateVillage: %v", err)
	}

	// duplicate (name, parent)
	if _, err := models.CreateDistrict(ctx, state.ID, "Ranchi"); err != models.ErrorDuplicateLocation {
		t.Errorf("duplicate district err = %v, want ErrorDuplicateLocation", err)
	}
	// same name under a different parent is fine
	otherState, err := models.CreateState(ctx, "Bihar")
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}
	if _, err := models.CreateDistrict(ctx, otherState.ID, "Ranchi"); err != nil {
		t.Errorf("same name under other parent: %v", err)
	}
	// missing parent
	if _, err := models.CreateDistrict(ctx, 90210, "Nowhere"); err != utils.ErrorRecordNotFound {
		t.Errorf("missing parent err = %v, want ErrorRecordNotFound", err)
	}
}

// A tenant can neither read nor attach to another tenant's rows; lookups
// come back as not-found rather than leaking the row.
func TestTenantIsolation(t *testing.T) {
	setupTestDB(t)
	ctxA := newTenantContext(t, "Tenant A")
	ctxB := newTenantContext(t, "Tenant B")

	state, err := models.CreateState(ctxA, "Odisha")
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}
	fwA := seedFramework(t, ctxA)

	// foreign parent id behaves like a missing one
	if _, err := models.CreateDistrict(ctxB, state.ID, "Cuttack"); err != utils.ErrorRecordNotFound {
		t.Errorf("foreign state err = %v, want ErrorRecordNotFound", err)
	}

	// foreign project id fails single-entity creation
	_, err = models.CreateActivity(ctxB, &models.NewActivity{
		ProjectId:      fwA.ProjectId,
		ObjectiveId:    fwA.ObjectiveId,
		InterventionId: fwA.InterventionId,
		Name:           "Cross-tenant activity",
	})
	if err == nil || err.Error() != "Project not found" {
		t.Errorf("foreign project err = %v, want Project not found", err)
	}

	// listings stay scoped
	projects, err := models.GetProjects(ctxB)
	if err != nil {
		t.Fatalf("GetProjects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("tenant B sees %d foreign projects", len(projects))
	}
	if _, err := models.GetProjectById(ctxB, fwA.ProjectId); err == nil {
		t.Error("tenant B fetched tenant A's project by id")
	}
}
