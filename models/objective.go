package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// Objective is a SMART statement at one level of the results hierarchy.
// It is scoped to the organization and optionally to a program or project.
// The original data model treats organization/program/project scope as
// mutually exclusive by convention only; writes here deliberately do not
// enforce exclusivity (see DESIGN.md).
type Objective struct {
	ID             int            `gorm:"primary_key" json:"id"`
	OrganizationId string         `gorm:"index;not null" json:"organization_id"`
	Code           string         `gorm:"size:50" json:"code"`
	Statement      string         `gorm:"type:text;not null" json:"statement" binding:"required"`
	Level          ObjectiveLevel `gorm:"size:50;not null" json:"level"`
	OrderIndex     int            `gorm:"default:0" json:"order_index"`
	ProgramId      *int           `gorm:"index" json:"program_id"`
	ProjectId      *int           `gorm:"index" json:"project_id"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewObjective struct {
	Statement string         `json:"statement" binding:"required" validate:"required"`
	Level     ObjectiveLevel `json:"level" validate:"required,oneof=IMPACT OUTCOME OUTPUT ACTIVITY"`
	ProgramId *int           `json:"program_id"`
	ProjectId *int           `json:"project_id"`
}

var objectiveCodePrefixes = map[ObjectiveLevel]string{
	ObjectiveLevelImpact:   "IMP",
	ObjectiveLevelOutcome:  "OUT",
	ObjectiveLevelOutput:   "OPT",
	ObjectiveLevelActivity: "ACT",
}

func CreateObjective(ctx context.Context, input *NewObjective) (*Objective, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if input.ProgramId != nil {
		if err := utils.ValidateResourceId[Program](ctx, organizationId, *input.ProgramId); err != nil {
			return nil, err
		}
	}
	if input.ProjectId != nil {
		if err := utils.ValidateResourceId[Project](ctx, organizationId, *input.ProjectId); err != nil {
			return nil, err
		}
	}

	// Code and orderIndex both derive from the current per-level count.
	// Codes are not guaranteed collision free under concurrent creates;
	// they are display identifiers, not keys.
	count, err := utils.ResourceCountWhere[Objective](ctx, organizationId, "level = ?", input.Level)
	if err != nil {
		return nil, err
	}

	objective := Objective{
		OrganizationId: organizationId,
		Code:           fmt.Sprintf("%s-%03d", objectiveCodePrefixes[input.Level], count+1),
		Statement:      input.Statement,
		Level:          input.Level,
		OrderIndex:     int(count),
		ProgramId:      input.ProgramId,
		ProjectId:      input.ProjectId,
	}

	if err := db.WithContext(ctx).Create(&objective).Error; err != nil {
		return nil, err
	}
	return &objective, nil
}

func GetObjectives(ctx context.Context) ([]*Objective, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	var objectives []*Objective
	err := db.WithContext(ctx).
		Where("organization_id = ?", organizationId).
		Order("order_index asc").
		Find(&objectives).Error
	if err != nil {
		return nil, err
	}
	return objectives, nil
}

func GetObjectiveById(ctx context.Context, id int) (*Objective, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	return utils.FetchModel[Objective](ctx, organizationId, id)
}

func ReorderObjectives(ctx context.Context, orderedIds []int) error {
	db := config.GetDB()
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return errors.New("organization id is required")
	}
	if err := utils.ValidateResourcesId[Objective](ctx, organizationId, orderedIds); err != nil {
		return err
	}
	tx := db.Begin()
	for idx, id := range orderedIds {
		err := tx.WithContext(ctx).Model(&Objective{}).
			Where("id = ? AND organization_id = ?", id, organizationId).
			Update("order_index", idx).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

func DeleteObjective(ctx context.Context, id int) error {
	db := config.GetDB()
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return errors.New("organization id is required")
	}
	if err := utils.ValidateResourceId[Objective](ctx, organizationId, id); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationId).
		Delete(&Objective{}).Error
}
