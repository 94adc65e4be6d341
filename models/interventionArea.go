package models

import (
	"context"
	"errors"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
	"gorm.io/gorm"
)

// InterventionArea is one geographic selection for a project. Serial
// numbers count up per project and are never reused after a delete, so
// field teams can keep referring to printed numbers.
type InterventionArea struct {
	ID              int       `gorm:"primary_key" json:"id"`
	OrganizationId  string    `gorm:"index;not null" json:"organization_id"`
	ProjectId       int       `gorm:"index;not null" json:"project_id"`
	SerialNumber    int       `gorm:"not null" json:"serial_number"`
	StateId         *int      `gorm:"index" json:"state_id"`
	DistrictId      *int      `gorm:"index" json:"district_id"`
	BlockId         *int      `gorm:"index" json:"block_id"`
	GramPanchayatId *int      `gorm:"index" json:"gram_panchayat_id"`
	VillageId       *int           `gorm:"index" json:"village_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

type NewInterventionArea struct {
	ProjectId       int  `json:"project_id" binding:"required" validate:"required"`
	StateId         *int `json:"state_id"`
	DistrictId      *int `json:"district_id"`
	BlockId         *int `json:"block_id"`
	GramPanchayatId *int `json:"gram_panchayat_id"`
	VillageId       *int `json:"village_id"`
}

// nextSerialNumber reads max(serial_number)+1 for the project. Areas are
// soft-deleted and the max is taken Unscoped, so a deleted area leaves a
// permanent gap instead of freeing its number. Two concurrent creates can
// still read the same max; the redis lock in CreateInterventionArea
// narrows that window but the database does not enforce it (known
// limitation, see DESIGN.md).
func nextSerialNumber(ctx context.Context, organizationId string, projectId int) (int, error) {
	db := config.GetDB()
	var maxSerial int
	err := db.WithContext(ctx).Unscoped().Model(&InterventionArea{}).
		Where("organization_id = ? AND project_id = ?", organizationId, projectId).
		Select("COALESCE(MAX(serial_number), 0)").
		Scan(&maxSerial).Error
	if err != nil {
		return 0, err
	}
	return maxSerial + 1, nil
}

func CreateInterventionArea(ctx context.Context, input *NewInterventionArea) (*InterventionArea, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if err := utils.ValidateResourceId[Project](ctx, organizationId, input.ProjectId); err != nil {
		return nil, errors.New("Project not found")
	}
	if input.StateId != nil {
		if err := utils.ValidateResourceId[State](ctx, organizationId, *input.StateId); err != nil {
			return nil, errors.New("State not found")
		}
	}
	if input.DistrictId != nil {
		if err := utils.ValidateResourceId[District](ctx, organizationId, *input.DistrictId); err != nil {
			return nil, errors.New("District not found")
		}
	}
	if input.BlockId != nil {
		if err := utils.ValidateResourceId[Block](ctx, organizationId, *input.BlockId); err != nil {
			return nil, errors.New("Block not found")
		}
	}
	if input.GramPanchayatId != nil {
		if err := utils.ValidateResourceId[GramPanchayat](ctx, organizationId, *input.GramPanchayatId); err != nil {
			return nil, errors.New("Gram panchayat not found")
		}
	}
	if input.VillageId != nil {
		if err := utils.ValidateResourceId[Village](ctx, organizationId, *input.VillageId); err != nil {
			return nil, errors.New("Village not found")
		}
	}

	release, err := utils.ObtainLock(ctx, "InterventionAreaSerial", organizationId, "interventionArea.go", "CreateInterventionArea")
	if err != nil {
		return nil, err
	}
	defer release()

	serial, err := nextSerialNumber(ctx, organizationId, input.ProjectId)
	if err != nil {
		return nil, err
	}

	area := InterventionArea{
		OrganizationId:  organizationId,
		ProjectId:       input.ProjectId,
		SerialNumber:    serial,
		StateId:         input.StateId,
		DistrictId:      input.DistrictId,
		BlockId:         input.BlockId,
		GramPanchayatId: input.GramPanchayatId,
		VillageId:       input.VillageId,
	}

	if err := db.WithContext(ctx).Create(&area).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

func GetInterventionAreas(ctx context.Context, projectId int) ([]*InterventionArea, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if projectId != 0 {
		dbCtx = dbCtx.Where("project_id = ?", projectId)
	}
	var areas []*InterventionArea
	if err := dbCtx.Order("serial_number asc").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

func DeleteInterventionArea(ctx context.Context, id int) error {
	db := config.GetDB()
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return errors.New("organization id is required")
	}
	if err := utils.ValidateResourceId[InterventionArea](ctx, organizationId, id); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationId).
		Delete(&InterventionArea{}).Error
}
