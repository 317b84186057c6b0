package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"complyready-backend/shared/database"
	"complyready-backend/shared/database/models"
	"complyready-backend/shared/database/models/assessment"
)

// openTestDB opens a throwaway sqlite database with the full schema
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "complyready_test.db")
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(database.MigrationModels()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// seedOrg creates a user and their organization for test scenarios
func seedOrg(t *testing.T, db *gorm.DB) (uuid.UUID, *models.Organization) {
	t.Helper()

	user := models.User{
		Email:     uuid.NewString() + "@test.local",
		Password:  "irrelevant",
		FirstName: "Test",
		LastName:  "User",
		Status:    "ACTIVE",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	org := models.Organization{
		OwnerID:         user.ID,
		Name:            "Test Trading LLC",
		Industry:        "Retail",
		CompanySize:     "11-50",
		Country:         "UAE",
		HandlesPII:      true,
		HandlesPayments: true,
	}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("create organization: %v", err)
	}

	return user.ID, &org
}

// stubGenerator replays canned responses and records the prompts it saw
type stubGenerator struct {
	responses []string
	err       error
	prompts   []string
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", nil
	}
	next := g.responses[0]
	g.responses = g.responses[1:]
	return next, nil
}

// seedAssessment creates an in-progress assessment with the given questions
// already answered per values ("" means unanswered).
func seedAssessment(t *testing.T, db *gorm.DB, userID uuid.UUID, org *models.Organization, values []string) *assessment.Assessment {
	t.Helper()

	run := assessment.Assessment{
		UserID:         userID,
		OrganizationID: org.ID,
		Status:         assessment.StatusInProgress,
		ProfileVersion: org.ProfileVersion,
	}
	if err := db.Create(&run).Error; err != nil {
		t.Fatalf("create assessment: %v", err)
	}

	for i, value := range values {
		question := assessment.Question{
			AssessmentID: run.ID,
			Text:         "Question " + string(rune('A'+i)),
			Category:     assessment.CategoryGeneral,
			Weight:       1,
		}
		if err := db.Create(&question).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}

		if value == "" {
			continue
		}
		answer := assessment.Answer{QuestionID: question.ID, Value: value}
		if err := db.Create(&answer).Error; err != nil {
			t.Fatalf("create answer: %v", err)
		}
	}

	return &run
}
