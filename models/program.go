package models

import (
	"context"
	"errors"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
	"github.com/shopspring/decimal"
)

type Program struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrganizationId string          `gorm:"index;not null" json:"organization_id"`
	Name           string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Description    string          `gorm:"type:text" json:"description"`
	Budget         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"budget"`
	Theme          string          `gorm:"size:255" json:"theme"`
	Sector         string          `gorm:"size:255" json:"sector"`
	Priority       string          `gorm:"size:50" json:"priority"`
	Status         ProgramStatus   `gorm:"size:50;default:DRAFT" json:"status"`
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Projects       []*Project      `gorm:"many2many:program_projects" json:"projects"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProgram struct {
	Name        string          `json:"name" binding:"required" validate:"required"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
	Theme       string          `json:"theme"`
	Sector      string          `json:"sector"`
	Priority    string          `json:"priority"`
	Status      ProgramStatus   `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE COMPLETED ARCHIVED"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	ProjectIds  []int           `json:"project_ids"`
}

func CreateProgram(ctx context.Context, input *NewProgram) (*Program, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if len(input.ProjectIds) > 0 {
		if err := utils.ValidateResourcesId[Project](ctx, organizationId, input.ProjectIds); err != nil {
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = ProgramStatusDraft
	}

	program := Program{
		OrganizationId: organizationId,
		Name:           input.Name,
		Description:    input.Description,
		Budget:         input.Budget,
		Theme:          input.Theme,
		Sector:         input.Sector,
		Priority:       input.Priority,
		Status:         status,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&program).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(input.ProjectIds) > 0 {
		var projects []*Project
		if err := tx.WithContext(ctx).Where("id IN ?", input.ProjectIds).Find(&projects).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.WithContext(ctx).Model(&program).Association("Projects").Append(projects); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func GetPrograms(ctx context.Context) ([]*Program, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	return utils.FetchAllModels[Program](ctx, organizationId, "Projects")
}

func GetProgramById(ctx context.Context, id int) (*Program, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	return utils.FetchModel[Program](ctx, organizationId, id, "Projects")
}

// project ids under a program, for the plan-progress dashboard's
// "programId without projectId means every project in the program" filter
func GetProgramProjectIds(ctx context.Context, organizationId string, programId int) ([]int, error) {
	db := config.GetDB()
	var ids []int
	err := db.WithContext(ctx).Table("program_projects").
		Joins("JOIN programs ON programs.id = program_projects.program_id").
		Where("program_projects.program_id = ? AND programs.organization_id = ?", programId, organizationId).
		Pluck("program_projects.project_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
