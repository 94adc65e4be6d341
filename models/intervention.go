package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// Intervention groups work under an objective; it can serve several
// programs at once.
type Intervention struct {
	ID               int                `gorm:"primary_key" json:"id"`
	OrganizationId   string             `gorm:"index;not null" json:"organization_id"`
	ObjectiveId      int                `gorm:"index;not null" json:"objective_id"`
	Name             string             `gorm:"size:255;not null" json:"name" binding:"required"`
	Description      string             `gorm:"type:text" json:"description"`
	Programs         []*Program         `gorm:"many2many:intervention_programs" json:"programs"`
	SubInterventions []*SubIntervention `json:"sub_interventions"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

// SubIntervention is one intervention line. A user-entered sub-intervention
// with N linked indicators materializes as N rows sharing the same name,
// one per indicator.
type SubIntervention struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	InterventionId int       `gorm:"index;not null" json:"intervention_id"`
	Name           string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Description    string    `gorm:"type:text" json:"description"`
	IndicatorId    *int      `gorm:"index" json:"indicator_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBulkIndicatorRef struct {
	ID int `json:"id"`
}

type NewBulkSubIntervention struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Indicators  []*NewBulkIndicatorRef `json:"indicators"`
}

type NewBulkIntervention struct {
	Name             string                    `json:"name"`
	ObjectiveId      int                       `json:"objectiveId"`
	ProgramId        int                       `json:"programId"`
	SubInterventions []*NewBulkSubIntervention `json:"subInterventions"`
}

func (i *NewBulkIntervention) HasRequiredFields() bool {
	return i.Name != "" && i.ObjectiveId != 0 && i.ProgramId != 0
}

func (i *NewBulkIntervention) dedupKey() string {
	return fmt.Sprintf("%d_%d_%s", i.ObjectiveId, i.ProgramId, i.Name)
}

// fetch every existing intervention matching any (objective, program) pair
// in the batch, in one query, indexed by objectiveId_programId_name
func fetchExistingInterventions(ctx context.Context, organizationId string, inputs []*NewBulkIntervention) (map[string]*Intervention, error) {
	db := config.GetDB()

	var objectiveIds, programIds []int
	for _, in := range inputs {
		if in == nil {
			continue
		}
		objectiveIds = append(objectiveIds, in.ObjectiveId)
		programIds = append(programIds, in.ProgramId)
	}

	index := make(map[string]*Intervention)
	if len(objectiveIds) == 0 {
		return index, nil
	}

	var existing []*Intervention
	err := db.WithContext(ctx).
		Preload("Programs").
		Where("organization_id = ? AND objective_id IN ?", organizationId, utils.UniqueSlice(objectiveIds)).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}

	for _, iv := range existing {
		for _, p := range iv.Programs {
			index[fmt.Sprintf("%d_%d_%s", iv.ObjectiveId, p.ID, iv.Name)] = iv
		}
	}
	return index, nil
}

// names already present on an intervention, so duplicates are skipped
// rather than re-created
func fetchSubInterventionNames(ctx context.Context, interventionIds []int) (map[string]bool, error) {
	db := config.GetDB()
	names := make(map[string]bool)
	if len(interventionIds) == 0 {
		return names, nil
	}
	var subs []*SubIntervention
	err := db.WithContext(ctx).Where("intervention_id IN ?", utils.UniqueSlice(interventionIds)).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		names[fmt.Sprintf("%d|%s", s.InterventionId, s.Name)] = true
	}
	return names, nil
}

// BulkCreateInterventions is the dedup-aware batch: a composite
// (objective, program, name) key is resolved against pre-existing rows and
// against earlier rows of the same batch, so duplicates within one upload
// collapse onto a single intervention. Sub-interventions are deduped by
// name within their parent and expanded into one row per valid linked
// indicator; a bad indicator id fails only its own row, not its siblings.
func BulkCreateInterventions(ctx context.Context, inputs []*NewBulkIntervention, meta AuditMeta) (*BulkResult[Intervention], error) {
	db := config.GetDB()

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	index, err := fetchExistingInterventions(ctx, organizationId, inputs)
	if err != nil {
		return nil, err
	}

	var existingIds []int
	for _, iv := range index {
		existingIds = append(existingIds, iv.ID)
	}
	subNames, err := fetchSubInterventionNames(ctx, existingIds)
	if err != nil {
		return nil, err
	}

	indicators, err := MapIndicators(ctx)
	if err != nil {
		return nil, err
	}

	result := &BulkResult[Intervention]{}

	for i, input := range inputs {
		if input == nil || !input.HasRequiredFields() {
			result.AddRowErrorMessage(i, ErrMissingRequiredFields)
			continue
		}

		if err := utils.ValidateResourceId[Objective](ctx, organizationId, input.ObjectiveId); err != nil {
			result.AddRowErrorMessage(i, "Objective not found")
			continue
		}
		if err := utils.ValidateResourceId[Program](ctx, organizationId, input.ProgramId); err != nil {
			result.AddRowErrorMessage(i, "Program not found")
			continue
		}

		intervention := index[input.dedupKey()]
		if intervention == nil {
			intervention = &Intervention{
				OrganizationId: organizationId,
				ObjectiveId:    input.ObjectiveId,
				Name:           input.Name,
			}
			if err := db.WithContext(ctx).Create(intervention).Error; err != nil {
				result.AddRowError(i, err)
				continue
			}
			var program Program
			if err := db.WithContext(ctx).First(&program, input.ProgramId).Error; err == nil {
				if err := db.WithContext(ctx).Model(intervention).Association("Programs").Append(&program); err != nil {
					result.AddRowError(i, err)
					continue
				}
			}
			// later rows with the same composite key reuse this one
			index[input.dedupKey()] = intervention
			result.Created = append(result.Created, intervention)
			WriteAuditLog(ctx, "CREATE", "Intervention", fmt.Sprint(intervention.ID), meta)
		}

		rowFailed := false
		badIndicators := false
		rowsPersisted := 0
		for _, sub := range input.SubInterventions {
			if sub == nil || sub.Name == "" {
				continue
			}
			nameKey := fmt.Sprintf("%d|%s", intervention.ID, sub.Name)
			if subNames[nameKey] {
				// already on this intervention: skipped, not updated
				continue
			}

			created := 0
			if len(sub.Indicators) == 0 {
				row := &SubIntervention{
					OrganizationId: organizationId,
					InterventionId: intervention.ID,
					Name:           sub.Name,
					Description:    sub.Description,
				}
				if err := db.WithContext(ctx).Create(row).Error; err != nil {
					result.AddRowError(i, err)
					rowFailed = true
				} else {
					created++
				}
			} else {
				for _, ref := range sub.Indicators {
					if ref == nil {
						continue
					}
					if _, ok := indicators[ref.ID]; !ok {
						result.AddRowErrorMessage(i, fmt.Sprintf("Indicator %d not found for sub-intervention %q", ref.ID, sub.Name))
						badIndicators = true
						continue
					}
					indicatorId := ref.ID
					row := &SubIntervention{
						OrganizationId: organizationId,
						InterventionId: intervention.ID,
						Name:           sub.Name,
						Description:    sub.Description,
						IndicatorId:    &indicatorId,
					}
					if err := db.WithContext(ctx).Create(row).Error; err != nil {
						result.AddRowError(i, err)
						rowFailed = true
						continue
					}
					created++
				}
			}

			if created > 0 {
				subNames[nameKey] = true
			}
			rowsPersisted += created
		}

		// invalid indicator ids fail only the lines they are on, but a row
		// whose indicator errors left no sub-intervention persisted at all is
		// not a success
		if rowFailed || (badIndicators && rowsPersisted == 0) {
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}

func GetInterventions(ctx context.Context, objectiveId int) ([]*Intervention, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Preload("SubInterventions").
		Preload("Programs").
		Where("organization_id = ?", organizationId)
	if objectiveId != 0 {
		dbCtx = dbCtx.Where("objective_id = ?", objectiveId)
	}
	var interventions []*Intervention
	if err := dbCtx.Find(&interventions).Error; err != nil {
		return nil, err
	}
	return interventions, nil
}
