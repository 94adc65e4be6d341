package models_test

import (
	"testing"

	"github.com/impactlens/mne_backend/models"
)

// Two rows naming the same (objective, program, name) inside one batch
// must land on a single intervention, including when the first row only
// just created it.
func TestBulkCreateInterventionsIntraBatchDedup(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Dedup NGO")
	fw := seedFramework(t, ctx)

	inputs := []*models.NewBulkIntervention{
		{
			Name:        "Soil conservation",
			ObjectiveId: fw.ObjectiveId,
			ProgramId:   fw.ProgramId,
			SubInterventions: []*models.NewBulkSubIntervention{
				{Name: "Contour trenching"},
			},
		},
		{
			Name:        "Soil conservation",
			ObjectiveId: fw.ObjectiveId,
			ProgramId:   fw.ProgramId,
			SubInterventions: []*models.NewBulkSubIntervention{
				{Name: "Gully plugging"},
			},
		},
	}

	result, err := models.BulkCreateInterventions(ctx, inputs, models.AuditMeta{})
	if err != nil {
		t.Fatalf("BulkCreateInterventions: %v", err)
	}
	if result.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", result.SuccessCount)
	}
	// only one new intervention despite two rows
	if len(result.Created) != 1 {
		t.Fatalf("len(Created) = %d, want 1", len(result.Created))
	}

	interventions, err := models.GetInterventions(ctx, fw.ObjectiveId)
	if err != nil {
		t.Fatalf("GetInterventions: %v", err)
	}
	var soil *models.Intervention
	for _, iv := range interventions {
		if iv.Name == "Soil conservation" {
			if soil != nil {
				t.Fatalf("duplicate Soil conservation interventions")
			}
			soil = iv
		}
	}
	if soil == nil {
		t.Fatal("Soil conservation intervention missing")
	}
	if len(soil.SubInterventions) != 2 {
		t.Errorf("sub-interventions = %d, want 2", len(soil.SubInterventions))
	}
}

// A sub-intervention with N valid linked indicators expands into N rows
// sharing one name; a dangling indicator fails only its own expansion.
func TestBulkCreateInterventionsIndicatorExpansion(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Expand NGO")
	fw := seedFramework(t, ctx)

	second, err := models.CreateIndicator(ctx, &models.NewIndicator{
		ObjectiveId: fw.ObjectiveId,
		Name:        "Households reached",
		Target:      "250",
	})
	if err != nil {
		t.Fatalf("CreateIndicator: %v", err)
	}

	inputs := []*models.NewBulkIntervention{
		{
			Name:        "Livelihood support",
			ObjectiveId: fw.ObjectiveId,
			ProgramId:   fw.ProgramId,
			SubInterventions: []*models.NewBulkSubIntervention{
				{
					Name: "Kitchen gardens",
					Indicators: []*models.NewBulkIndicatorRef{
						{ID: fw.IndicatorId},
						{ID: second.ID},
						{ID: 87654},
					},
				},
			},
		},
	}

	result, err := models.BulkCreateInterventions(ctx, inputs, models.AuditMeta{})
	if err != nil {
		t.Fatalf("BulkCreateInterventions: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %+v, want exactly the dangling indicator", result.Errors)
	}

	interventions, err := models.GetInterventions(ctx, fw.ObjectiveId)
	if err != nil {
		t.Fatalf("GetInterventions: %v", err)
	}
	for _, iv := range interventions {
		if iv.Name != "Livelihood support" {
			continue
		}
		if len(iv.SubInterventions) != 2 {
			t.Fatalf("expanded rows = %d, want 2", len(iv.SubInterventions))
		}
		for _, sub := range iv.SubInterventions {
			if sub.Name != "Kitchen gardens" {
				t.Errorf("sub name = %q, want Kitchen gardens", sub.Name)
			}
			if sub.IndicatorId == nil {
				t.Errorf("expanded row missing indicator id")
			}
		}
		return
	}
	t.Fatal("Livelihood support intervention missing")
}

// A sub-intervention name already present on the intervention is skipped,
// not duplicated or updated.
func TestBulkCreateInterventionsSubNameMerge(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Merge NGO")
	fw := seedFramework(t, ctx)

	row := func() []*models.NewBulkIntervention {
		return []*models.NewBulkIntervention{
			{
				Name:        "Health camps",
				ObjectiveId: fw.ObjectiveId,
				ProgramId:   fw.ProgramId,
				SubInterventions: []*models.NewBulkSubIntervention{
					{Name: "Eye screening"},
				},
			},
		}
	}

	if _, err := models.BulkCreateInterventions(ctx, row(), models.AuditMeta{}); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	result, err := models.BulkCreateInterventions(ctx, row(), models.AuditMeta{})
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if len(result.Created) != 0 {
		t.Errorf("second upload created %d interventions, want 0", len(result.Created))
	}

	interventions, err := models.GetInterventions(ctx, fw.ObjectiveId)
	if err != nil {
		t.Fatalf("GetInterventions: %v", err)
	}
	for _, iv := range interventions {
		if iv.Name == "Health camps" && len(iv.SubInterventions) != 1 {
			t.Errorf("sub-interventions = %d, want 1", len(iv.SubInterventions))
		}
	}
}

// A row whose every linked indicator is unknown persists no
// sub-intervention rows and must not count toward SuccessCount.
func TestBulkCreateInterventionsAllIndicatorsInvalid(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Bad Refs NGO")
	fw := seedFramework(t, ctx)

	inputs := []*models.NewBulkIntervention{
		{
			Name:        "Well recharge",
			ObjectiveId: fw.ObjectiveId,
			ProgramId:   fw.ProgramId,
			SubInterventions: []*models.NewBulkSubIntervention{
				{
					Name: "Recharge pits",
					Indicators: []*models.NewBulkIndicatorRef{
						{ID: 70001},
						{ID: 70002},
					},
				},
			},
		},
	}

	result, err := models.BulkCreateInterventions(ctx, inputs, models.AuditMeta{})
	if err != nil {
		t.Fatalf("BulkCreateInterventions: %v", err)
	}
	if result.SuccessCount != 0 {
		t.Errorf("SuccessCount = %d, want 0", result.SuccessCount)
	}
	if len(result.Errors) != 2 {
		t.Errorf("errors = %+v, want one per unknown indicator", result.Errors)
	}

	interventions, err := models.GetInterventions(ctx, fw.ObjectiveId)
	if err != nil {
		t.Fatalf("GetInterventions: %v", err)
	}
	for _, iv := range interventions {
		if iv.Name == "Well recharge" && len(iv.SubInterventions) != 0 {
			t.Errorf("sub-interventions = %d, want 0", len(iv.SubInterventions))
		}
	}
}

func TestBulkCreateInterventionsMissingReferences(t *testing.T) {
	setupTestDB(t)
	ctx := newTenantContext(t, "Refs NGO")
	fw := seedFramework(t, ctx)

	inputs := []*models.NewBulkIntervention{
		{Name: "", ObjectiveId: fw.ObjectiveId, ProgramId: fw.ProgramId},
		{Name: "Ghost objective", ObjectiveId: 5555, ProgramId: fw.ProgramId},
		{Name: "Ghost program", ObjectiveId: fw.ObjectiveId, ProgramId: 5555},
	}
	result, err := models.BulkCreateInterventions(ctx, inputs, models.AuditMeta{})
	if err != nil {
		t.Fatalf("BulkCreateInterventions: %v", err)
	}
	if result.SuccessCount != 0 {
		t.Errorf("SuccessCount = %d, want 0", result.SuccessCount)
	}
	want := []string{models.ErrMissingRequiredFields, "Objective not found", "Program not found"}
	if len(result.Errors) != len(want) {
		t.Fatalf("errors = %+v", result.Errors)
	}
	for i, msg := range want {
		if result.Errors[i].Row != models.RowNumber(i) || result.Errors[i].Error != msg {
			t.Errorf("error %d = %+v, want row %d %q", i, result.Errors[i], models.RowNumber(i), msg)
		}
	}
}
