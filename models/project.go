package models

import (
	"context"
	"errors"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID                    int             `gorm:"primary_key" json:"id"`
	OrganizationId        string          `gorm:"index;not null" json:"organization_id"`
	Name                  string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Description           string          `gorm:"type:text" json:"description"`
	Budget                decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"budget"`
	StartDate             *time.Time      `json:"start_date"`
	EndDate               *time.Time      `json:"end_date"`
	DirectBeneficiaries   int             `gorm:"default:0" json:"direct_beneficiaries"`
	IndirectBeneficiaries int             `gorm:"default:0" json:"indirect_beneficiaries"`
	Fundings              []*Funding      `json:"fundings"`
	Programs              []*Program      `gorm:"many2many:program_projects" json:"programs"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Funding records one donor's contribution to a project for one year.
type Funding struct {
	ID        int             `gorm:"primary_key" json:"id"`
	ProjectId int             `gorm:"index;not null" json:"project_id"`
	DonorName string          `gorm:"size:255;not null" json:"donor_name"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Year      int             `json:"year"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	Name                  string          `json:"name" binding:"required" validate:"required"`
	Description           string          `json:"description"`
	Budget                decimal.Decimal `json:"budget"`
	StartDate             *time.Time      `json:"start_date"`
	EndDate               *time.Time      `json:"end_date"`
	DirectBeneficiaries   int             `json:"direct_beneficiaries"`
	IndirectBeneficiaries int             `json:"indirect_beneficiaries"`
	ProgramIds            []int           `json:"program_ids"`
	Fundings              []*NewFunding   `json:"fundings"`
}

type NewFunding struct {
	DonorName string          `json:"donor_name" binding:"required" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Year      int             `json:"year"`
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if len(input.ProgramIds) > 0 {
		if err := utils.ValidateResourcesId[Program](ctx, organizationId, input.ProgramIds); err != nil {
			return nil, err
		}
	}

	project := Project{
		OrganizationId:        organizationId,
		Name:                  input.Name,
		Description:           input.Description,
		Budget:                input.Budget,
		StartDate:             input.StartDate,
		EndDate:               input.EndDate,
		DirectBeneficiaries:   input.DirectBeneficiaries,
		IndirectBeneficiaries: input.IndirectBeneficiaries,
	}
	for _, f := range input.Fundings {
		project.Fundings = append(project.Fundings, &Funding{
			DonorName: f.DonorName,
			Amount:    f.Amount,
			Year:      f.Year,
		})
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&project).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(input.ProgramIds) > 0 {
		var programs []*Program
		if err := tx.WithContext(ctx).Where("id IN ?", input.ProgramIds).Find(&programs).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.WithContext(ctx).Model(&project).Association("Programs").Append(programs); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func GetProjects(ctx context.Context) ([]*Project, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	return utils.FetchAllModels[Project](ctx, organizationId, "Fundings", "Programs")
}

func GetProjectById(ctx context.Context, id int) (*Project, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	return utils.FetchModel[Project](ctx, organizationId, id, "Fundings", "Programs")
}

// donor names per project in one query, for dashboard rows
func GetProjectDonors(ctx context.Context, projectIds []int) (map[int][]string, error) {
	db := config.GetDB()
	donors := make(map[int][]string)
	if len(projectIds) == 0 {
		return donors, nil
	}
	var fundings []*Funding
	err := db.WithContext(ctx).Where("project_id IN ?", utils.UniqueSlice(projectIds)).Find(&fundings).Error
	if err != nil {
		return nil, err
	}
	for _, f := range fundings {
		donors[f.ProjectId] = append(donors[f.ProjectId], f.DonorName)
	}
	return donors, nil
}
