package models

import (
	"log"

	"github.com/impactlens/mne_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Organization{},
		&Program{}, &Project{}, &Funding{},
		&Objective{}, &Indicator{}, &OrganizationIndicator{},
		&Intervention{}, &SubIntervention{},
		&Activity{},
		&State{}, &District{}, &Block{}, &GramPanchayat{}, &Village{},
		&InterventionArea{},
		&Plan{},
		&Report{}, &TrainingReport{}, &Participant{}, &InfrastructureReport{}, &HouseholdReport{}, &HouseholdBenefit{},
		&AuditLog{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
