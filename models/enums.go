package models

type ProgramStatus string

const (
	ProgramStatusDraft     ProgramStatus = "DRAFT"
	ProgramStatusActive    ProgramStatus = "ACTIVE"
	ProgramStatusCompleted ProgramStatus = "COMPLETED"
	ProgramStatusArchived  ProgramStatus = "ARCHIVED"
)

type ObjectiveLevel string

const (
	ObjectiveLevelImpact   ObjectiveLevel = "IMPACT"
	ObjectiveLevelOutcome  ObjectiveLevel = "OUTCOME"
	ObjectiveLevelOutput   ObjectiveLevel = "OUTPUT"
	ObjectiveLevelActivity ObjectiveLevel = "ACTIVITY"
)

type IndicatorType string

const (
	IndicatorTypeOutput  IndicatorType = "OUTPUT"
	IndicatorTypeOutcome IndicatorType = "OUTCOME"
	IndicatorTypeImpact  IndicatorType = "IMPACT"
)

type ActivityStatus string

const (
	ActivityStatusPlanned   ActivityStatus = "PLANNED"
	ActivityStatusOngoing   ActivityStatus = "ONGOING"
	ActivityStatusCompleted ActivityStatus = "COMPLETED"
	ActivityStatusCancelled ActivityStatus = "CANCELLED"
)

// AreaType classifies a Block. Unknown values entering through the AI
// seeder are coerced to RURAL instead of rejected (see SeedLocations).
type AreaType string

const (
	AreaTypeRural AreaType = "RURAL"
	AreaTypeUrban AreaType = "URBAN"
)

func ParseAreaType(s string) (AreaType, bool) {
	switch AreaType(s) {
	case AreaTypeRural:
		return AreaTypeRural, true
	case AreaTypeUrban:
		return AreaTypeUrban, true
	}
	return "", false
}

type ReportType string

const (
	ReportTypeTraining       ReportType = "TRAINING"
	ReportTypeInfrastructure ReportType = "INFRASTRUCTURE"
	ReportTypeHousehold      ReportType = "HOUSEHOLD"
	ReportTypeGeneral        ReportType = "GENERAL"
)

type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyAnnual    Frequency = "ANNUAL"
)
