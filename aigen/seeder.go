package aigen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
)

const moduleName = "aigen"

// FrameworkSeedRequest describes the organization to the model.
type FrameworkSeedRequest struct {
	ProgramId   int    `json:"program_id" binding:"required"`
	Sector      string `json:"sector" binding:"required"`
	Description string `json:"description"`
}

// generated framework shape; anything the model adds beyond this is
// ignored by the decoder
type generatedFramework struct {
	Objectives []struct {
		Statement  string `json:"statement"`
		Level      string `json:"level"`
		Indicators []struct {
			Name          string `json:"name"`
			Type          string `json:"type"`
			UnitOfMeasure string `json:"unitOfMeasure"`
			Target        string `json:"target"`
		} `json:"indicators"`
		Interventions []struct {
			Name             string   `json:"name"`
			SubInterventions []string `json:"subInterventions"`
		} `json:"interventions"`
	} `json:"objectives"`
}

// FrameworkSeedSummary reports what was persisted.
type FrameworkSeedSummary struct {
	Objectives    int               `json:"objectives"`
	Indicators    int               `json:"indicators"`
	Interventions int               `json:"interventions"`
	Errors        []models.RowError `json:"errors,omitempty"`
}

var frameworkLevels = map[string]models.ObjectiveLevel{
	"IMPACT":   models.ObjectiveLevelImpact,
	"OUTCOME":  models.ObjectiveLevelOutcome,
	"OUTPUT":   models.ObjectiveLevelOutput,
	"ACTIVITY": models.ObjectiveLevelActivity,
}

// SeedFramework asks the generator for an objectives/indicators/
// interventions hierarchy for the given sector and persists whatever
// validates. Generated rows that fail validation are collected, not
// fatal, matching the bulk-upload contract.
func SeedFramework(ctx context.Context, generator Generator, request *FrameworkSeedRequest) (*FrameworkSeedSummary, error) {
	logger := config.GetLogger()

	prompt := fmt.Sprintf(
		"You are designing a monitoring and evaluation framework for a development organization "+
			"working in the %q sector. %s\n"+
			"Return ONLY a JSON object of the form "+
			`{"objectives":[{"statement":...,"level":"IMPACT|OUTCOME|OUTPUT|ACTIVITY",`+
			`"indicators":[{"name":...,"type":"OUTPUT|OUTCOME|IMPACT","unitOfMeasure":...,"target":...}],`+
			`"interventions":[{"name":...,"subInterventions":[...]}]}]}. `+
			"Produce 3 to 5 objectives with 2 to 4 indicators and 1 to 3 interventions each.",
		request.Sector, request.Description)

	rawText, err := generator.GenerateStructuredContent(ctx, prompt)
	if err != nil {
		return nil, err
	}
	payload, err := ExtractJSONPayload(rawText)
	if err != nil {
		return nil, err
	}
	var framework generatedFramework
	if err := json.Unmarshal([]byte(payload), &framework); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}

	summary := &FrameworkSeedSummary{}
	for i, genObjective := range framework.Objectives {
		level, ok := frameworkLevels[genObjective.Level]
		if !ok {
			level = models.ObjectiveLevelOutput
		}
		objective, err := models.CreateObjective(ctx, &models.NewObjective{
			Statement: genObjective.Statement,
			Level:     level,
			ProgramId: &request.ProgramId,
		})
		if err != nil {
			config.LogError(logger, moduleName, "SeedFramework", "Failed to create objective", genObjective.Statement, err)
			summary.Errors = append(summary.Errors, models.RowError{Row: i + 1, Error: err.Error()})
			continue
		}
		summary.Objectives++

		var indicatorIds []int
		for _, genIndicator := range genObjective.Indicators {
			indicator, err := models.CreateIndicator(ctx, &models.NewIndicator{
				ObjectiveId:   objective.ID,
				Name:          genIndicator.Name,
				Type:          models.IndicatorType(genIndicator.Type),
				UnitOfMeasure: genIndicator.UnitOfMeasure,
				Target:        genIndicator.Target,
			})
			if err != nil {
				config.LogError(logger, moduleName, "SeedFramework", "Failed to create indicator", genIndicator.Name, err)
				continue
			}
			summary.Indicators++
			indicatorIds = append(indicatorIds, indicator.ID)
		}

		bulkRows := make([]*models.NewBulkIntervention, 0, len(genObjective.Interventions))
		for _, genIntervention := range genObjective.Interventions {
			row := &models.NewBulkIntervention{
				Name:        genIntervention.Name,
				ObjectiveId: objective.ID,
				ProgramId:   request.ProgramId,
			}
			for _, subName := range genIntervention.SubInterventions {
				sub := &models.NewBulkSubIntervention{Name: subName}
				for _, indicatorId := range indicatorIds {
					sub.Indicators = append(sub.Indicators, &models.NewBulkIndicatorRef{ID: indicatorId})
				}
				row.SubInterventions = append(row.SubInterventions, sub)
			}
			bulkRows = append(bulkRows, row)
		}
		if len(bulkRows) > 0 {
			result, err := models.BulkCreateInterventions(ctx, bulkRows, models.AuditMeta{})
			if err != nil {
				config.LogError(logger, moduleName, "SeedFramework", "Failed to create interventions", objective.ID, err)
				continue
			}
			summary.Interventions += result.SuccessCount
			summary.Errors = append(summary.Errors, result.Errors...)
		}
	}
	return summary, nil
}

// LocationSeedRequest names the region to expand.
type LocationSeedRequest struct {
	StateId      int    `json:"state_id" binding:"required"`
	DistrictName string `json:"district_name" binding:"required"`
}

type generatedLocations struct {
	Blocks []struct {
		Name           string `json:"name"`
		AreaType       string `json:"areaType"`
		GramPanchayats []struct {
			Name     string   `json:"name"`
			Villages []string `json:"villages"`
		} `json:"gramPanchayats"`
	} `json:"blocks"`
}

// LocationSeedSummary reports what was persisted.
type LocationSeedSummary struct {
	DistrictId     int `json:"district_id"`
	Blocks         int `json:"blocks"`
	GramPanchayats int `json:"gram_panchayats"`
	Villages       int `json:"villages"`
}

// SeedLocations asks the generator for the administrative hierarchy under
// a district and persists it. An areaType the model invents is coerced to
// RURAL rather than failing the block; duplicates (already-seeded names)
// are skipped silently.
func SeedLocations(ctx context.Context, generator Generator, request *LocationSeedRequest) (*LocationSeedSummary, error) {
	logger := config.GetLogger()

	prompt := fmt.Sprintf(
		"List the administrative blocks of the district %q in India, each with its gram panchayats "+
			"and the villages under each gram panchayat. Return ONLY a JSON object of the form "+
			`{"blocks":[{"name":...,"areaType":"RURAL|URBAN","gramPanchayats":[{"name":...,"villages":[...]}]}]}. `+
			"Limit to at most 5 blocks, 5 gram panchayats per block and 10 villages per gram panchayat.",
		request.DistrictName)

	rawText, err := generator.GenerateStructuredContent(ctx, prompt)
	if err != nil {
		return nil, err
	}
	payload, err := ExtractJSONPayload(rawText)
	if err != nil {
		return nil, err
	}
	var locations generatedLocations
	if err := json.Unmarshal([]byte(payload), &locations); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}

	district, err := models.CreateDistrict(ctx, request.StateId, request.DistrictName)
	if err == models.ErrorDuplicateLocation {
		district, err = findDistrict(ctx, request.StateId, request.DistrictName)
	}
	if err != nil {
		return nil, err
	}

	summary := &LocationSeedSummary{DistrictId: district.ID}
	for _, genBlock := range locations.Blocks {
		areaType, ok := models.ParseAreaType(genBlock.AreaType)
		if !ok {
			areaType = models.AreaTypeRural
		}
		block, err := models.CreateBlock(ctx, district.ID, genBlock.Name, areaType)
		if err != nil {
			if err != models.ErrorDuplicateLocation {
				config.LogError(logger, moduleName, "SeedLocations", "Failed to create block", genBlock.Name, err)
			}
			continue
		}
		summary.Blocks++

		for _, genPanchayat := range genBlock.GramPanchayats {
			panchayat, err := models.CreateGramPanchayat(ctx, block.ID, genPanchayat.Name)
			if err != nil {
				if err != models.ErrorDuplicateLocation {
					config.LogError(logger, moduleName, "SeedLocations", "Failed to create gram panchayat", genPanchayat.Name, err)
				}
				continue
			}
			summary.GramPanchayats++

			for _, villageName := range genPanchayat.Villages {
				if _, err := models.CreateVillage(ctx, panchayat.ID, villageName); err != nil {
					if err != models.ErrorDuplicateLocation {
						config.LogError(logger, moduleName, "SeedLocations", "Failed to create village", villageName, err)
					}
					continue
				}
				summary.Villages++
			}
		}
	}
	return summary, nil
}

func findDistrict(ctx context.Context, stateId int, name string) (*models.District, error) {
	districts, err := models.GetDistricts(ctx, stateId)
	if err != nil {
		return nil, err
	}
	for _, district := range districts {
		if district.Name == name {
			return district, nil
		}
	}
	return nil, models.ErrorDuplicateLocation
}
