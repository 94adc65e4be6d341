package models

import (
	"context"
	"errors"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// Report is a field submission against one activity at one geography.
// Year uses the "FYxx" financial-year label (April-March).
type Report struct {
	ID                 int        `gorm:"primary_key" json:"id"`
	OrganizationId     string     `gorm:"index;not null" json:"organization_id"`
	ActivityId         int        `gorm:"index;not null" json:"activity_id"`
	InterventionAreaId int        `gorm:"index;not null" json:"intervention_area_id"`
	UnitReported       float64    `gorm:"default:0" json:"unit_reported"`
	Month              string     `gorm:"size:20" json:"month"`
	Quarter            string     `gorm:"size:10" json:"quarter"`
	Year               string     `gorm:"size:10" json:"year"`
	Type               ReportType `gorm:"size:50;default:GENERAL" json:"type"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Training       *TrainingReport       `json:"training"`
	Infrastructure *InfrastructureReport `json:"infrastructure"`
	Household      *HouseholdReport      `json:"household"`
}

type TrainingReport struct {
	ID           int            `gorm:"primary_key" json:"id"`
	ReportId     int            `gorm:"index;not null" json:"report_id"`
	Topic        string         `gorm:"size:255" json:"topic"`
	TrainerName  string         `gorm:"size:255" json:"trainer_name"`
	Participants []*Participant `json:"participants"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type Participant struct {
	ID               int       `gorm:"primary_key" json:"id"`
	TrainingReportId int       `gorm:"index;not null" json:"training_report_id"`
	Name             string    `gorm:"size:255" json:"name"`
	Gender           string    `gorm:"size:20" json:"gender"`
	Age              int       `json:"age"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type InfrastructureReport struct {
	ID             int       `gorm:"primary_key" json:"id"`
	ReportId       int       `gorm:"index;not null" json:"report_id"`
	StructureType  string    `gorm:"size:255" json:"structure_type"`
	CompletionPct  float64   `gorm:"default:0" json:"completion_pct"`
	HandoverStatus string    `gorm:"size:100" json:"handover_status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type HouseholdReport struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	ReportId      int                 `gorm:"index;not null" json:"report_id"`
	HouseholdHead string              `gorm:"size:255" json:"household_head"`
	Benefits      []*HouseholdBenefit `json:"benefits"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

type HouseholdBenefit struct {
	ID                int       `gorm:"primary_key" json:"id"`
	HouseholdReportId int       `gorm:"index;not null" json:"household_report_id"`
	BenefitType       string    `gorm:"size:255" json:"benefit_type"`
	Quantity          float64   `gorm:"default:0" json:"quantity"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewReport struct {
	ActivityId         int        `json:"activity_id" binding:"required" validate:"required"`
	InterventionAreaId int        `json:"intervention_area_id" binding:"required" validate:"required"`
	UnitReported       float64    `json:"unit_reported"`
	Month              string     `json:"month"`
	Quarter            string     `json:"quarter"`
	Year               string     `json:"year"`
	Type               ReportType `json:"type" validate:"omitempty,oneof=TRAINING INFRASTRUCTURE HOUSEHOLD GENERAL"`

	Training       *TrainingReport       `json:"training"`
	Infrastructure *InfrastructureReport `json:"infrastructure"`
	Household      *HouseholdReport      `json:"household"`
}

func CreateReport(ctx context.Context, input *NewReport) (*Report, error) {
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

	year := input.Year
	if year == "" {
		year = ReportingYear(time.Now())
	}

	reportType := input.Type
	if reportType == "" {
		reportType = ReportTypeGeneral
	}

	report := Report{
		OrganizationId:     organizationId,
		ActivityId:         input.ActivityId,
		InterventionAreaId: input.InterventionAreaId,
		UnitReported:       input.UnitReported,
		Month:              input.Month,
		Quarter:            input.Quarter,
		Year:               year,
		Type:               reportType,
		Training:           input.Training,
		Infrastructure:     input.Infrastructure,
		Household:          input.Household,
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&report).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func GetReports(ctx context.Context, activityId int, year string) ([]*Report, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if activityId != 0 {
		dbCtx = dbCtx.Where("activity_id = ?", activityId)
	}
	if year != "" {
		dbCtx = dbCtx.Where("year = ?", year)
	}
	var reports []*Report
	if err := dbCtx.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
