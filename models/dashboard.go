package models

import (
	"context"
	"errors"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// IndicatorPerformance is one row of the org-wide performance-indicators
// view. Achieved sums every report of every activity linked to the
// indicator; the RAG rating uses scheme A.
type IndicatorPerformance struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Type          IndicatorType `json:"type"`
	BaselineValue string        `json:"baseline_value"`
	Target        string        `json:"target"`
	Achieved      float64       `json:"achieved"`
	RagRating     RagStatus     `json:"rag_rating"`
	Level         string        `json:"level"`
	Project       string        `json:"project"`
	Program       string        `json:"program"`
	Objective     string        `json:"objective"`
}

// GetIndicatorPerformance builds the performance-indicators dashboard.
// indicatorType filters by type; "all" (or empty) returns everything.
func GetIndicatorPerformance(ctx context.Context, indicatorType string) ([]*IndicatorPerformance, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()

	indicators, err := GetIndicators(ctx, indicatorType)
	if err != nil {
		return nil, err
	}

	rows := make([]*IndicatorPerformance, 0, len(indicators))
	for _, indicator := range indicators {
		achieved, err := SumIndicatorAchieved(ctx, organizationId, indicator.ID)
		if err != nil {
			return nil, err
		}
		target := utils.ParseNumericOrZero(indicator.Target)

		row := &IndicatorPerformance{
			ID:            indicator.ID,
			Name:          indicator.Name,
			Type:          indicator.Type,
			BaselineValue: indicator.BaselineValue,
			Target:        indicator.Target,
			Achieved:      achieved,
			RagRating:     ClassifyRagScoreA(achieved, target),
		}

		var objective Objective
		err = db.WithContext(ctx).
			Where("organization_id = ? AND id = ?", organizationId, indicator.ObjectiveId).
			First(&objective).Error
		if err == nil {
			row.Level = string(objective.Level)
			row.Objective = objective.Statement
			if objective.ProjectId != nil {
				var project Project
				if db.WithContext(ctx).
					Where("organization_id = ? AND id = ?", organizationId, *objective.ProjectId).
					First(&project).Error == nil {
					row.Project = project.Name
				}
			}
			if objective.ProgramId != nil {
				var program Program
				if db.WithContext(ctx).
					Where("organization_id = ? AND id = ?", organizationId, *objective.ProgramId).
					First(&program).Error == nil {
					row.Program = program.Name
				}
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// PlanProgressFilter narrows the plan-progress view. All present filters
// are AND-combined. ProgramId without ProjectId expands to every project
// under the program.
type PlanProgressFilter struct {
	ProjectId          *int
	ProgramId          *int
	ObjectiveId        *int
	DonorName          string
	RagRating          RagStatus
	InterventionAreaId *int
}

// PlanProgressRow is one per-activity row of the plan-vs-progress view.
// The RAG rating compares YtdProgress against YtdPlan using scheme B.
type PlanProgressRow struct {
	ActivityId          int       `json:"activity_id"`
	ActivityName        string    `json:"activity_name"`
	ProjectId           int       `json:"project_id"`
	ProjectName         string    `json:"project_name"`
	Donors              []string  `json:"donors"`
	Locations           []string  `json:"locations"`
	LifeOfProjectTarget float64   `json:"life_of_project_target"`
	AnnualTarget        float64   `json:"annual_target"`
	YtdPlan             float64   `json:"ytd_plan"`
	YtdProgress         float64   `json:"ytd_progress"`
	RagRating           RagStatus `json:"rag_rating"`
}

// GetPlanProgress builds the plan-vs-progress dashboard as of asOf.
func GetPlanProgress(ctx context.Context, filter *PlanProgressFilter, asOf time.Time) ([]*PlanProgressRow, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)

	projectIds, err := filterProjectIds(ctx, organizationId, filter)
	if err != nil {
		return nil, err
	}
	if projectIds != nil {
		if len(projectIds) == 0 {
			return []*PlanProgressRow{}, nil
		}
		dbCtx = dbCtx.Where("project_id IN ?", projectIds)
	}
	if filter.ObjectiveId != nil {
		dbCtx = dbCtx.Where("objective_id = ?", *filter.ObjectiveId)
	}

	var activities []*Activity
	if err := dbCtx.Order("id").Find(&activities).Error; err != nil {
		return nil, err
	}

	if filter.InterventionAreaId != nil {
		activities, err = filterByInterventionArea(ctx, organizationId, activities, *filter.InterventionAreaId)
		if err != nil {
			return nil, err
		}
	}

	projectNames, err := mapProjectNames(ctx, organizationId, activities)
	if err != nil {
		return nil, err
	}
	donorsByProject, err := GetProjectDonors(ctx, projectIdsOf(activities))
	if err != nil {
		return nil, err
	}

	rows := make([]*PlanProgressRow, 0, len(activities))
	for _, activity := range activities {
		donors := donorsByProject[activity.ProjectId]
		if filter.DonorName != "" && !containsString(donors, filter.DonorName) {
			continue
		}

		progress, err := AggregateActivityProgress(ctx, activity, asOf)
		if err != nil {
			return nil, err
		}
		locations, err := describeActivityLocations(ctx, organizationId, activity.ID)
		if err != nil {
			return nil, err
		}

		row := &PlanProgressRow{
			ActivityId:          activity.ID,
			ActivityName:        activity.Name,
			ProjectId:           activity.ProjectId,
			ProjectName:         projectNames[activity.ProjectId],
			Donors:              donors,
			Locations:           locations,
			LifeOfProjectTarget: progress.LifeOfProjectTarget,
			AnnualTarget:        progress.AnnualTarget,
			YtdPlan:             progress.YtdPlan,
			YtdProgress:         progress.YtdProgress,
			RagRating:           ClassifyRagScoreB(progress.YtdProgress, progress.YtdPlan),
		}
		if filter.RagRating != "" && row.RagRating != filter.RagRating {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// nil means "no project restriction"; an empty slice means the filter
// matched nothing.
func filterProjectIds(ctx context.Context, organizationId string, filter *PlanProgressFilter) ([]int, error) {
	if filter.ProjectId != nil {
		return []int{*filter.ProjectId}, nil
	}
	if filter.ProgramId != nil {
		ids, err := GetProgramProjectIds(ctx, organizationId, *filter.ProgramId)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []int{}
		}
		return ids, nil
	}
	return nil, nil
}

func filterByInterventionArea(ctx context.Context, organizationId string, activities []*Activity, areaId int) ([]*Activity, error) {
	db := config.GetDB()
	var activityIds []int
	err := db.WithContext(ctx).Model(&Plan{}).
		Where("organization_id = ? AND intervention_area_id = ?", organizationId, areaId).
		Distinct("activity_id").
		Pluck("activity_id", &activityIds).Error
	if err != nil {
		return nil, err
	}
	allowed := make(map[int]bool, len(activityIds))
	for _, id := range activityIds {
		allowed[id] = true
	}
	var filtered []*Activity
	for _, activity := range activities {
		if allowed[activity.ID] {
			filtered = append(filtered, activity)
		}
	}
	return filtered, nil
}

func mapProjectNames(ctx context.Context, organizationId string, activities []*Activity) (map[int]string, error) {
	db := config.GetDB()
	ids := projectIdsOf(activities)
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var projects []*Project
	err := db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", organizationId, ids).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		names[project.ID] = project.Name
	}
	return names, nil
}

func projectIdsOf(activities []*Activity) []int {
	ids := make([]int, 0, len(activities))
	for _, activity := range activities {
		ids = append(ids, activity.ProjectId)
	}
	return utils.UniqueSlice(ids)
}

// describeActivityLocations labels the intervention areas the activity is
// planned against, using the deepest location level each area carries.
func describeActivityLocations(ctx context.Context, organizationId string, activityId int) ([]string, error) {
	db := config.GetDB()
	var areaIds []int
	err := db.WithContext(ctx).Model(&Plan{}).
		Where("organization_id = ? AND activity_id = ?", organizationId, activityId).
		Distinct("intervention_area_id").
		Pluck("intervention_area_id", &areaIds).Error
	if err != nil {
		return nil, err
	}
	var labels []string
	for _, areaId := range areaIds {
		var area InterventionArea
		err := db.WithContext(ctx).
			Where("organization_id = ? AND id = ?", organizationId, areaId).
			First(&area).Error
		if err != nil {
			continue
		}
		label, err := describeInterventionArea(ctx, organizationId, &area)
		if err != nil {
			return nil, err
		}
		if label != "" {
			labels = append(labels, label)
		}
	}
	return utils.UniqueSlice(labels), nil
}

func describeInterventionArea(ctx context.Context, organizationId string, area *InterventionArea) (string, error) {
	db := config.GetDB()
	lookup := func(model any, id *int) (string, error) {
		if id == nil {
			return "", nil
		}
		var name string
		err := db.WithContext(ctx).Model(model).
			Where("organization_id = ? AND id = ?", organizationId, *id).
			Limit(1).
			Select("name").
			Scan(&name).Error
		return name, err
	}
	// deepest level wins
	levels := []struct {
		model any
		id    *int
	}{
		{&Village{}, area.VillageId},
		{&GramPanchayat{}, area.GramPanchayatId},
		{&Block{}, area.BlockId},
		{&District{}, area.DistrictId},
		{&State{}, area.StateId},
	}
	for _, level := range levels {
		name, err := lookup(level.model, level.id)
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
	}
	return "", nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
