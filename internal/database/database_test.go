package database

import (
	"context"
	"log"
	"testing"
	"time"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "campus-connect-backend/internal/model"
)

var testDB *DBinstanceStruct

func TestMain(tm *testing.M) {
	var err error
	var tdown func(context.Context) error
	tdown, testDB, err = GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	tm.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if tdown != nil {
		_ = tdown(ctx)
	}
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	if stats["status"] != "up" {
		t.Fatalf("expected status to be up, got %s", stats["status"])
	}

	if _, ok := stats["error"]; ok {
		t.Fatalf("expected error not to be present")
	}

	if stats["message"] != "It's healthy" {
		t.Fatalf("expected message to be 'It's healthy', got %s", stats["message"])
	}
}

func TestMigrateCreatesPortalTables(t *testing.T) {
	for _, table := range []string{"users", "profiles", "applications", "admissions_info", "fee_deadlines", "fee_payments"} {
		if !testDB.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist after migration", table)
		}
	}
}

func TestSeededFixtures(t *testing.T) {
	if TestUserStudent1.ID == TestUserStudent2.ID {
		t.Fatal("seeded students should be distinct")
	}

	var profile m.Profile
	if err := testDB.Where("user_id = ?", TestUserStudent1.ID).First(&profile).Error; err != nil {
		t.Fatalf("expected seeded profile for student_1: %v", err)
	}

	var programCount int64
	if err := testDB.Model(&m.AdmissionsInfo{}).Count(&programCount).Error; err != nil {
		t.Fatalf("failed to count admissions programs: %v", err)
	}
	if programCount < 2 {
		t.Fatalf("expected at least 2 seeded programs, got %d", programCount)
	}
}

func TestChangeFeedTriggerInstalled(t *testing.T) {
	var count int64
	err := testDB.DB.Raw(
		`SELECT count(*) FROM pg_trigger WHERE tgname = 'applications_notify_update'`,
	).Scan(&count).Error
	if err != nil {
		t.Fatalf("failed to query pg_trigger: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected applications_notify_update trigger to exist")
	}
}
