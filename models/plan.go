package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// MonthlyTargets maps "YYYY-MM" keys to planned units for that month.
// Stored as a JSON text column; parsed and validated only here, at the
// read/write boundary, so dashboards call Total/CumulativeThrough instead
// of picking the blob apart themselves.
type MonthlyTargets map[string]float64

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func (m MonthlyTargets) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MonthlyTargets) Scan(value interface{}) error {
	if value == nil {
		*m = MonthlyTargets{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MonthlyTargets", value)
	}
	return json.Unmarshal(b, m)
}

// Validate rejects malformed month keys and negative targets at write time.
func (m MonthlyTargets) Validate() error {
	for key, v := range m {
		if !yearMonthPattern.MatchString(key) {
			return fmt.Errorf("invalid month key %q, want YYYY-MM", key)
		}
		if v < 0 {
			return fmt.Errorf("negative target for %s", key)
		}
	}
	return nil
}

// Total sums every month, independent of the current date
// (life-of-project target).
func (m MonthlyTargets) Total() float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}

// CumulativeThrough sums entries up to and including yearMonth ("YYYY-MM").
// Zero-padded keys make the lexicographic compare equivalent to a date
// compare.
func (m MonthlyTargets) CumulativeThrough(yearMonth string) float64 {
	var sum float64
	for key, v := range m {
		if key <= yearMonth {
			sum += v
		}
	}
	return sum
}

// YearMonth formats t as a MonthlyTargets key.
func YearMonth(t time.Time) string {
	return t.Format("2006-01")
}

// Plan is the monthly-target schedule for one activity at one geography.
type Plan struct {
	ID                 int            `gorm:"primary_key" json:"id"`
	OrganizationId     string         `gorm:"index;not null" json:"organization_id"`
	ActivityId         int            `gorm:"index;not null" json:"activity_id"`
	InterventionAreaId int            `gorm:"index;not null" json:"intervention_area_id"`
	StartMonth         string         `gorm:"size:7" json:"start_month"`
	EndMonth           string         `gorm:"size:7" json:"end_month"`
	MonthlyTargets     MonthlyTargets `gorm:"type:text" json:"monthly_targets"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPlan struct {
	ActivityId         int            `json:"activity_id" binding:"required" validate:"required"`
	InterventionAreaId int            `json:"intervention_area_id" binding:"required" validate:"required"`
	StartMonth         string         `json:"start_month"`
	EndMonth           string         `json:"end_month"`
	MonthlyTargets     MonthlyTargets `json:"monthly_targets"`
}

func CreatePlan(ctx context.Context, input *NewPlan) (*Plan, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if err := utils.ValidateResourceId[Activity](ctx, organizationId, input.ActivityId); err != nil {
		return nil, errors.New("Activity not found")
	}
	if err := utils.ValidateResourceId[InterventionArea](ctx, organizationId, input.InterventionAreaId); err != nil {
		return nil, errors.New("Intervention area not found")
	}
	if err := input.MonthlyTargets.Validate(); err != nil {
		return nil, err
	}

	plan := Plan{
		OrganizationId:     organizationId,
		ActivityId:         input.ActivityId,
		InterventionAreaId: input.InterventionAreaId,
		StartMonth:         input.StartMonth,
		EndMonth:           input.EndMonth,
		MonthlyTargets:     input.MonthlyTargets,
	}
	if plan.MonthlyTargets == nil {
		plan.MonthlyTargets = MonthlyTargets{}
	}

	if err := db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func GetPlans(ctx context.Context, activityId int) ([]*Plan, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if activityId != 0 {
		dbCtx = dbCtx.Where("activity_id = ?", activityId)
	}
	var plans []*Plan
	if err := dbCtx.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
