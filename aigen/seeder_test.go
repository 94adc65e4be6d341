package aigen_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/impactlens/mne_backend/aigen"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

// fakeGenerator returns canned model output, fences and all.
type fakeGenerator struct {
	response string
}

func (f *fakeGenerator) GenerateStructuredContent(ctx context.Context, prompt string) (string, error) {
	return f.response, nil
}

func setupSeederTest(t *testing.T) context.Context {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "aigen_test.db"))
	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	ctx := context.Background()
	org, err := models.CreateOrganization(ctx, &models.NewOrganization{
		Name:  "Seeder NGO",
		Email: "seeder@impactlens.test",
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	ctx = utils.SetOrganizationIdInContext(ctx, org.ID.String())
	return utils.SetUserIdInContext(ctx, 1)
}

func TestSeedFramework(t *testing.T) {
	ctx := setupSeederTest(t)

	program, err := models.CreateProgram(ctx, &models.NewProgram{Name: "Education"})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	gen := &fakeGenerator{response: "```json\n" + `{
		"objectives": [
			{
				"statement": "Improve learning outcomes",
				"level": "OUTCOME",
				"indicators": [
					{"name": "Children enrolled", "type": "OUTPUT", "unitOfMeasure": "children", "target": "500"}
				],
				"interventions": [
					{"name": "Remedial classes", "subInterventions": ["After-school tutoring"]}
				]
			}
		]
	}` + "\n```"}

	summary, err := aigen.SeedFramework(ctx, gen, &aigen.FrameworkSeedRequest{
		ProgramId: program.ID,
		Sector:    "education",
	})
	if err != nil {
		t.Fatalf("SeedFramework: %v", err)
	}
	if summary.Objectives != 1 || summary.Indicators != 1 || summary.Interventions != 1 {
		t.Errorf("summary = %+v, want 1/1/1", summary)
	}

	objectives, err := models.GetObjectives(ctx)
	if err != nil {
		t.Fatalf("GetObjectives: %v", err)
	}
	if len(objectives) != 1 || objectives[0].Level != models.ObjectiveLevelOutcome {
		t.Fatalf("objectives = %+v", objectives)
	}
	interventions, err := models.GetInterventions(ctx, objectives[0].ID)
	if err != nil {
		t.Fatalf("GetInterventions: %v", err)
	}
	if len(interventions) != 1 || len(interventions[0].SubInterventions) != 1 {
		t.Fatalf("interventions = %+v", interventions)
	}
	if interventions[0].SubInterventions[0].IndicatorId == nil {
		t.Error("sub-intervention not linked to the seeded indicator")
	}
}

// An areaType the model invents must not fail the block: it silently
// becomes RURAL.
func TestSeedLocationsAreaTypeCoercion(t *testing.T) {
	ctx := setupSeederTest(t)

	state, err := models.CreateState(ctx, "Jharkhand")
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}

	gen := &fakeGenerator{response: `{
		"blocks": [
			{
				"name": "Kanke",
				"areaType": "SEMI-URBAN",
				"gramPanchayats": [
					{"name": "Sutiambe", "villages": ["Chutupalu", "Hesal"]}
				]
			}
		]
	}`}

	summary, err := aigen.SeedLocations(ctx, gen, &aigen.LocationSeedRequest{
		StateId:      state.ID,
		DistrictName: "Ranchi",
	})
	if err != nil {
		t.Fatalf("SeedLocations: %v", err)
	}
	if summary.Blocks != 1 || summary.GramPanchayats != 1 || summary.Villages != 2 {
		t.Errorf("summary = %+v, want 1/1/2", summary)
	}

	blocks, err := models.GetBlocks(ctx, summary.DistrictId)
	if err != nil {
		t.Fatalf("GetBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].AreaType != models.AreaTypeRural {
		t.Errorf("AreaType = %s, want RURAL", blocks[0].AreaType)
	}
}
