package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// ReportingYear labels t's financial year. The year runs April-March and
// is named for the calendar year it starts in: 2024-03-15 is FY23,
// 2024-04-01 is FY24.
func ReportingYear(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return fmt.Sprintf("FY%02d", year%100)
}

// ActivityProgress aggregates one activity's plans and reports.
//
// LifeOfProjectTarget sums every monthly target across all plans and only
// falls back to the activity's own annual TargetUnit when no plan targets
// exist or they sum to zero. AnnualTarget is always the raw TargetUnit.
type ActivityProgress struct {
	ActivityId          int     `json:"activity_id"`
	AchievedValue       float64 `json:"achieved_value"`
	LifeOfProjectTarget float64 `json:"life_of_project_target"`
	AnnualTarget        float64 `json:"annual_target"`
	YtdPlan             float64 `json:"ytd_plan"`
	YtdProgress         float64 `json:"ytd_progress"`
}

// AggregateActivityProgress computes progress for one activity as of the
// given time. asOf is a parameter (not time.Now()) so the cumulative
// cutoff is testable.
func AggregateActivityProgress(ctx context.Context, activity *Activity, asOf time.Time) (*ActivityProgress, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()

	var plans []*Plan
	err := db.WithContext(ctx).
		Where("organization_id = ? AND activity_id = ?", organizationId, activity.ID).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}

	progress := &ActivityProgress{
		ActivityId:   activity.ID,
		AnnualTarget: activity.TargetUnit,
	}

	currentMonth := YearMonth(asOf)
	for _, plan := range plans {
		progress.LifeOfProjectTarget += plan.MonthlyTargets.Total()
		progress.YtdPlan += plan.MonthlyTargets.CumulativeThrough(currentMonth)
	}
	if progress.LifeOfProjectTarget == 0 {
		progress.LifeOfProjectTarget = activity.TargetUnit
	}

	achieved, err := sumReportedUnits(ctx, organizationId, activity.ID, "")
	if err != nil {
		return nil, err
	}
	progress.AchievedValue = achieved

	ytd, err := sumReportedUnits(ctx, organizationId, activity.ID, ReportingYear(asOf))
	if err != nil {
		return nil, err
	}
	progress.YtdProgress = ytd

	return progress, nil
}

// sum of unitReported for an activity, optionally narrowed to one
// financial year
func sumReportedUnits(ctx context.Context, organizationId string, activityId int, year string) (float64, error) {
	db := config.GetDB()
	var total float64
	dbCtx := db.WithContext(ctx).Model(&Report{}).
		Where("organization_id = ? AND activity_id = ?", organizationId, activityId)
	if year != "" {
		dbCtx = dbCtx.Where("year = ?", year)
	}
	err := dbCtx.Select("COALESCE(SUM(unit_reported), 0)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// SumIndicatorAchieved totals reports across every activity linked to the
// indicator, tenant-wide.
func SumIndicatorAchieved(ctx context.Context, organizationId string, indicatorId int) (float64, error) {
	db := config.GetDB()
	var total float64
	err := db.WithContext(ctx).Model(&Report{}).
		Joins("JOIN activities ON activities.id = reports.activity_id").
		Where("reports.organization_id = ? AND activities.indicator_id = ?", organizationId, indicatorId).
		Select("COALESCE(SUM(reports.unit_reported), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
