package models

import (
	"context"
	"errors"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// Location hierarchy: State > District > Block > GramPanchayat > Village.
// Every level is tenant-scoped; children reference parents by id and a
// (name, parent, organization) triple must be unique.

type State struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	Name           string    `gorm:"size:255;not null" json:"name" binding:"required"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type District struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	StateId        int       `gorm:"index;not null" json:"state_id"`
	Name           string    `gorm:"size:255;not null" json:"name" binding:"required"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Block struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	DistrictId     int       `gorm:"index;not null" json:"district_id"`
	Name           string    `gorm:"size:255;not null" json:"name" binding:"required"`
	AreaType       AreaType  `gorm:"size:20;default:RURAL" json:"area_type"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type GramPanchayat struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	BlockId        int       `gorm:"index;not null" json:"block_id"`
	Name           string    `gorm:"size:255;not null" json:"name" binding:"required"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Village struct {
	ID              int       `gorm:"primary_key" json:"id"`
	OrganizationId  string    `gorm:"index;not null" json:"organization_id"`
	GramPanchayatId int       `gorm:"index;not null" json:"gram_panchayat_id"`
	Name            string    `gorm:"size:255;not null" json:"name" binding:"required"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var ErrorDuplicateLocation = errors.New("duplicate location name under the same parent")

func organizationIdOrError(ctx context.Context) (string, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return "", errors.New("organization id is required")
	}
	return organizationId, nil
}

func CreateState(ctx context.Context, name string) (*State, error) {
	db := config.GetDB()
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	count, err := utils.ResourceCountWhere[State](ctx, organizationId, "name = ?", name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrorDuplicateLocation
	}
	state := State{OrganizationId: organizationId, Name: name}
	if err := db.WithContext(ctx).Create(&state).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisList[State](organizationId)
	return &state, nil
}

func GetStates(ctx context.Context) ([]*State, error) {
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchAllModels[State](ctx, organizationId)
}

func CreateDistrict(ctx context.Context, stateId int, name string) (*District, error) {
	db := config.GetDB()
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[State](ctx, organizationId, stateId); err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	count, err := utils.ResourceCountWhere[District](ctx, organizationId, "name = ? AND state_id = ?", name, stateId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrorDuplicateLocation
	}
	district := District{OrganizationId: organizationId, StateId: stateId, Name: name}
	if err := db.WithContext(ctx).Create(&district).Error; err != nil {
		return nil, err
	}
	return &district, nil
}

func GetDistricts(ctx context.Context, stateId int) ([]*District, error) {
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if stateId != 0 {
		dbCtx = dbCtx.Where("state_id = ?", stateId)
	}
	var districts []*District
	if err := dbCtx.Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

func CreateBlock(ctx context.Context, districtId int, name string, areaType AreaType) (*Block, error) {
	db := config.GetDB()
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[District](ctx, organizationId, districtId); err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	count, err := utils.ResourceCountWhere[Block](ctx, organizationId, "name = ? AND district_id = ?", name, districtId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrorDuplicateLocation
	}
	if areaType != AreaTypeRural && areaType != AreaTypeUrban {
		return nil, errors.New("invalid area type")
	}
	block := Block{OrganizationId: organizationId, DistrictId: districtId, Name: name, AreaType: areaType}
	if err := db.WithContext(ctx).Create(&block).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func GetBlocks(ctx context.Context, districtId int) ([]*Block, error) {
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if districtId != 0 {
		dbCtx = dbCtx.Where("district_id = ?", districtId)
	}
	var blocks []*Block
	if err := dbCtx.Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func CreateGramPanchayat(ctx context.Context, blockId int, name string) (*GramPanchayat, error) {
	db := config.GetDB()
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Block](ctx, organizationId, blockId); err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	count, err := utils.ResourceCountWhere[GramPanchayat](ctx, organizationId, "name = ? AND block_id = ?", name, blockId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrorDuplicateLocation
	}
	gp := GramPanchayat{OrganizationId: organizationId, BlockId: blockId, Name: name}
	if err := db.WithContext(ctx).Create(&gp).Error; err != nil {
		return nil, err
	}
	return &gp, nil
}

func GetGramPanchayats(ctx context.Context, blockId int) ([]*GramPanchayat, error) {
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if blockId != 0 {
		dbCtx = dbCtx.Where("block_id = ?", blockId)
	}
	var gps []*GramPanchayat
	if err := dbCtx.Find(&gps).Error; err != nil {
		return nil, err
	}
	return gps, nil
}

func CreateVillage(ctx context.Context, gramPanchayatId int, name string) (*Village, error) {
	db := config.GetDB()
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[GramPanchayat](ctx, organizationId, gramPanchayatId); err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	count, err := utils.ResourceCountWhere[Village](ctx, organizationId, "name = ? AND gram_panchayat_id = ?", name, gramPanchayatId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrorDuplicateLocation
	}
	village := Village{OrganizationId: organizationId, GramPanchayatId: gramPanchayatId, Name: name}
	if err := db.WithContext(ctx).Create(&village).Error; err != nil {
		return nil, err
	}
	return &village, nil
}

func GetVillages(ctx context.Context, gramPanchayatId int) ([]*Village, error) {
	organizationId, err := organizationIdOrError(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if gramPanchayatId != 0 {
		dbCtx = dbCtx.Where("gram_panchayat_id = ?", gramPanchayatId)
	}
	var villages []*Village
	if err := dbCtx.Find(&villages).Error; err != nil {
		return nil, err
	}
	return villages, nil
}
