package models

import (
	"context"
	"errors"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// Indicator measures progress against one objective. BaselineValue and
// Target are free text as entered by users ("5,000 households"); they are
// parsed tolerantly at the aggregation boundary (utils.ParseNumericOrZero),
// never at write time.
type Indicator struct {
	ID             int           `gorm:"primary_key" json:"id"`
	OrganizationId string        `gorm:"index;not null" json:"organization_id"`
	ObjectiveId    int           `gorm:"index;not null" json:"objective_id"`
	Name           string        `gorm:"size:255;not null" json:"name" binding:"required"`
	Type           IndicatorType `gorm:"size:50" json:"type"`
	Frequency      Frequency     `gorm:"size:50" json:"frequency"`
	UnitOfMeasure  string        `gorm:"size:100" json:"unit_of_measure"`
	BaselineValue  string        `gorm:"size:255" json:"baseline_value"`
	Target         string        `gorm:"size:255" json:"target"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrganizationIndicator is the org-level indicator catalogue, kept as a
// separate table from objective-scoped indicators.
type OrganizationIndicator struct {
	ID             int           `gorm:"primary_key" json:"id"`
	OrganizationId string        `gorm:"index;not null" json:"organization_id"`
	Name           string        `gorm:"size:255;not null" json:"name" binding:"required"`
	Type           IndicatorType `gorm:"size:50" json:"type"`
	Frequency      Frequency     `gorm:"size:50" json:"frequency"`
	UnitOfMeasure  string        `gorm:"size:100" json:"unit_of_measure"`
	BaselineValue  string        `gorm:"size:255" json:"baseline_value"`
	Target         string        `gorm:"size:255" json:"target"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewIndicator struct {
	ObjectiveId   int           `json:"objective_id" binding:"required" validate:"required"`
	Name          string        `json:"name" binding:"required" validate:"required"`
	Type          IndicatorType `json:"type" validate:"omitempty,oneof=OUTPUT OUTCOME IMPACT"`
	Frequency     Frequency     `json:"frequency" validate:"omitempty,oneof=MONTHLY QUARTERLY ANNUAL"`
	UnitOfMeasure string        `json:"unit_of_measure"`
	BaselineValue string        `json:"baseline_value"`
	Target        string        `json:"target"`
}

func CreateIndicator(ctx context.Context, input *NewIndicator) (*Indicator, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if err := utils.ValidateResourceId[Objective](ctx, organizationId, input.ObjectiveId); err != nil {
		return nil, err
	}

	indicator := Indicator{
		OrganizationId: organizationId,
		ObjectiveId:    input.ObjectiveId,
		Name:           input.Name,
		Type:           input.Type,
		Frequency:      input.Frequency,
		UnitOfMeasure:  input.UnitOfMeasure,
		BaselineValue:  input.BaselineValue,
		Target:         input.Target,
	}

	if err := db.WithContext(ctx).Create(&indicator).Error; err != nil {
		return nil, err
	}
	// invalidate the per-tenant indicator cache used by bulk uploads
	_ = utils.RemoveRedisMap[Indicator](organizationId)
	return &indicator, nil
}

func GetIndicators(ctx context.Context, indicatorType string) ([]*Indicator, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if indicatorType != "" && indicatorType != "all" {
		dbCtx = dbCtx.Where("type = ?", indicatorType)
	}
	var indicators []*Indicator
	if err := dbCtx.Find(&indicators).Error; err != nil {
		return nil, err
	}
	return indicators, nil
}

// MapIndicators returns the tenant's indicators keyed by id, cached in
// redis. Bulk uploads resolve suggested indicator ids against this map
// instead of issuing one existence query per row.
func MapIndicators(ctx context.Context) (map[int]*Indicator, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	key := utils.GetTypeName[Indicator]() + "Map:" + organizationId

	var indicatorMap map[int]*Indicator
	if exists, err := config.GetRedisObject(key, &indicatorMap); err != nil {
		return nil, err
	} else if !exists {
		indicatorMap = make(map[int]*Indicator)
		indicators, err := utils.FetchAllModels[Indicator](ctx, organizationId)
		if err != nil {
			return nil, err
		}
		for _, ind := range indicators {
			indicatorMap[ind.ID] = ind
		}
		if err := config.SetRedisObject(key, &indicatorMap, utils.GetCacheLifespan()); err != nil {
			return nil, err
		}
	}
	return indicatorMap, nil
}

func CreateOrganizationIndicator(ctx context.Context, input *NewIndicator) (*OrganizationIndicator, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	indicator := OrganizationIndicator{
		OrganizationId: organizationId,
		Name:           input.Name,
		Type:           input.Type,
		Frequency:      input.Frequency,
		UnitOfMeasure:  input.UnitOfMeasure,
		BaselineValue:  input.BaselineValue,
		Target:         input.Target,
	}

	if err := db.WithContext(ctx).Create(&indicator).Error; err != nil {
		return nil, err
	}
	return &indicator, nil
}

func GetOrganizationIndicators(ctx context.Context, indicatorType string) ([]*OrganizationIndicator, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if indicatorType != "" && indicatorType != "all" {
		dbCtx = dbCtx.Where("type = ?", indicatorType)
	}
	var indicators []*OrganizationIndicator
	if err := dbCtx.Find(&indicators).Error; err != nil {
		return nil, err
	}
	return indicators, nil
}
