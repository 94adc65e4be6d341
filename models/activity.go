package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
	"github.com/shopspring/decimal"
)

// Activity is the unit of plannable and reportable work.
type Activity struct {
	ID                int             `gorm:"primary_key" json:"id"`
	OrganizationId    string          `gorm:"index;not null" json:"organization_id"`
	ProjectId         int             `gorm:"index;not null" json:"project_id"`
	ObjectiveId       int             `gorm:"index;not null" json:"objective_id"`
	IndicatorId       *int            `gorm:"index" json:"indicator_id"`
	InterventionId    int             `gorm:"index;not null" json:"intervention_id"`
	SubInterventionId *int            `gorm:"index" json:"sub_intervention_id"`
	Name              string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Description       string          `gorm:"type:text" json:"description"`
	StartDate         *time.Time      `json:"start_date"`
	EndDate           *time.Time      `json:"end_date"`
	UnitOfMeasure     string          `gorm:"size:100" json:"unit_of_measure"`
	TargetUnit        float64         `gorm:"default:0" json:"target_unit"`
	CostPerUnit       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_per_unit"`
	TotalBudget       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_budget"`
	Leverage          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"leverage"`
	Type              string          `gorm:"size:100" json:"type"`
	Status            ActivityStatus  `gorm:"size:50;default:PLANNED" json:"status"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewActivity struct {
	ProjectId         int             `json:"projectId"`
	ObjectiveId       int             `json:"objectiveId"`
	Name              string          `json:"name"`
	InterventionId    int             `json:"interventionId"`
	IndicatorId       *int            `json:"indicatorId"`
	SubInterventionId *int            `json:"subInterventionId"`
	Description       string          `json:"description"`
	StartDate         *time.Time      `json:"startDate"`
	EndDate           *time.Time      `json:"endDate"`
	UnitOfMeasure     string          `json:"unitOfMeasure"`
	TargetUnit        float64         `json:"targetUnit"`
	CostPerUnit       decimal.Decimal `json:"costPerUnit"`
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	Leverage          decimal.Decimal `json:"leverage"`
	Type              string          `json:"type"`
}

// HasRequiredFields is the per-row validation for bulk upload: presence
// only, no cross-field rules.
func (a *NewActivity) HasRequiredFields() bool {
	return a.ProjectId != 0 && a.ObjectiveId != 0 && a.Name != "" && a.InterventionId != 0
}

func (a *NewActivity) toActivity(organizationId string) *Activity {
	return &Activity{
		OrganizationId:    organizationId,
		ProjectId:         a.ProjectId,
		ObjectiveId:       a.ObjectiveId,
		IndicatorId:       a.IndicatorId,
		InterventionId:    a.InterventionId,
		SubInterventionId: a.SubInterventionId,
		Name:              a.Name,
		Description:       a.Description,
		StartDate:         a.StartDate,
		EndDate:           a.EndDate,
		UnitOfMeasure:     a.UnitOfMeasure,
		TargetUnit:        a.TargetUnit,
		CostPerUnit:       a.CostPerUnit,
		TotalBudget:       a.TotalBudget,
		Leverage:          a.Leverage,
		Type:              a.Type,
		Status:            ActivityStatusPlanned,
	}
}

// resolveReferences confirms every referenced entity exists inside the
// tenant before the row is written. Required references fail the row;
// optional ones (indicator, sub-intervention) fail it too when present but
// unresolvable, since a wrong id is worse than a missing one.
func (a *NewActivity) resolveReferences(ctx context.Context, organizationId string) error {
	if err := utils.ValidateResourceId[Project](ctx, organizationId, a.ProjectId); err != nil {
		return errors.New("Project not found")
	}
	if err := utils.ValidateResourceId[Objective](ctx, organizationId, a.ObjectiveId); err != nil {
		return errors.New("Objective not found")
	}
	if err := utils.ValidateResourceId[Intervention](ctx, organizationId, a.InterventionId); err != nil {
		return errors.New("Intervention not found")
	}
	if a.IndicatorId != nil {
		if err := utils.ValidateResourceId[Indicator](ctx, organizationId, *a.IndicatorId); err != nil {
			return errors.New("Indicator not found")
		}
	}
	if a.SubInterventionId != nil {
		if err := utils.ValidateResourceId[SubIntervention](ctx, organizationId, *a.SubInterventionId); err != nil {
			return errors.New("Sub-intervention not found")
		}
	}
	return nil
}

// CreateActivity is the single-entity path: a missing reference is a
// request-level not-found error, unlike the bulk path where the same
// failure is recorded per row.
func CreateActivity(ctx context.Context, input *NewActivity) (*Activity, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if !input.HasRequiredFields() {
		return nil, errors.New(ErrMissingRequiredFields)
	}
	if err := input.resolveReferences(ctx, organizationId); err != nil {
		return nil, err
	}

	activity := input.toActivity(organizationId)
	if err := db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// BulkCreateActivities processes rows strictly sequentially and never
// aborts on a bad row. Each row is its own independent write: a batch can
// persist rows 1..k and fail on k+1 by design, the caller gets the full
// account in the result.
func BulkCreateActivities(ctx context.Context, inputs []*NewActivity, meta AuditMeta) (*BulkResult[Activity], error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	result := &BulkResult[Activity]{}

	for i, input := range inputs {
		if input == nil || !input.HasRequiredFields() {
			result.AddRowErrorMessage(i, ErrMissingRequiredFields)
			continue
		}

		if err := input.resolveReferences(ctx, organizationId); err != nil {
			result.AddRowError(i, err)
			continue
		}

		activity := input.toActivity(organizationId)
		if err := db.WithContext(ctx).Create(activity).Error; err != nil {
			result.AddRowError(i, err)
			continue
		}

		result.AddCreated(activity)
		WriteAuditLog(ctx, "CREATE", "Activity", fmt.Sprint(activity.ID), meta)
	}

	return result, nil
}

func GetActivities(ctx context.Context, projectId int) ([]*Activity, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if projectId != 0 {
		dbCtx = dbCtx.Where("project_id = ?", projectId)
	}
	var activities []*Activity
	if err := dbCtx.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func GetActivityById(ctx context.Context, id int) (*Activity, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	return utils.FetchModel[Activity](ctx, organizationId, id)
}
