// seed-demo creates a demo organization with a small M&E framework and
// prints a bearer token for it, so a fresh environment has something to
// click through.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
	"github.com/impactlens/mne_backend/utils"
)

func main() {
	name := flag.String("name", "Demo NGO", "organization name")
	email := flag.String("email", "demo@impactlens.local", "organization email")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	org, err := models.CreateOrganization(ctx, &models.NewOrganization{
		Name:  *name,
		Email: *email,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create organization: %v\n", err)
		os.Exit(1)
	}
	ctx = utils.SetOrganizationIdInContext(ctx, org.ID.String())
	ctx = utils.SetUserIdInContext(ctx, 1)

	program, err := models.CreateProgram(ctx, &models.NewProgram{
		Name:   "Water Security",
		Sector: "WASH",
		Status: models.ProgramStatusActive,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create program: %v\n", err)
		os.Exit(1)
	}
	project, err := models.CreateProject(ctx, &models.NewProject{
		Name:       "Watershed Restoration",
		ProgramIds: []int{program.ID},
		Fundings:   []*models.NewFunding{{DonorName: "Demo Trust"}},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create project: %v\n", err)
		os.Exit(1)
	}
	objective, err := models.CreateObjective(ctx, &models.NewObjective{
		Statement: "Improve groundwater availability in target villages",
		Level:     models.ObjectiveLevelOutcome,
		ProgramId: &program.ID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create objective: %v\n", err)
		os.Exit(1)
	}
	if _, err := models.CreateIndicator(ctx, &models.NewIndicator{
		ObjectiveId: objective.ID,
		Name:        "Ponds rejuvenated",
		Type:        models.IndicatorTypeOutput,
		Target:      "100",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create indicator: %v\n", err)
		os.Exit(1)
	}

	token, err := utils.JwtGenerate(1, org.ID.String(), "Admin")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("organization: %s\n", org.ID)
	fmt.Printf("program:      %d\n", program.ID)
	fmt.Printf("project:      %d\n", project.ID)
	fmt.Printf("token:        %s\n", token)
}
