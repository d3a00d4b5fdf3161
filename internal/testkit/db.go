// Package testkit holds the helpers shared by service and controller tests:
// a migrated in-memory database, fixture builders, and a JSON-scenario
// runner for HTTP handlers.
package testkit

import (
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/shopfront/database/migrations"
	"github.com/shashiranjanraj/shopfront/pkg/database"
	"github.com/shashiranjanraj/shopfront/pkg/migration"
)

// NewDB returns a private, fully migrated in-memory SQLite database that
// is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := database.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("testkit: open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("testkit: sql.DB: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises
	// writers the way a real server's transactions would
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.New(db).WithOutput(io.Discard).Run(); err != nil {
		t.Fatalf("testkit: migrate: %v", err)
	}
	return db
}
