// migrate runs schema migrations as a standalone job. Deployments that set
// SKIP_MIGRATIONS=true on the API server run this instead, so DDL never
// blocks request-serving revisions.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/migrate
package main

import (
	"fmt"
	"os"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/models"
)

func main() {
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()
	fmt.Println("migrations applied")
}
