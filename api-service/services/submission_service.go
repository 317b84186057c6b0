package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"complyready-backend/shared/clients"
	"complyready-backend/shared/database/models"
	"complyready-backend/shared/database/models/assessment"
	"complyready-backend/shared/database/models/compliance"
	"complyready-backend/shared/utils/apperr"
	"complyready-backend/shared/utils/extract"
	"complyready-backend/shared/utils/scoring"
)

// Derived remediation actions are capped to the highest-priority risks and
// carry a fixed score reward.
const (
	maxActionsPerSubmission = 5
	actionExpectedIncrease  = 5
	actionDescription       = "Remediate this gap identified by your latest compliance assessment."
)

// placeholderSummary is stored when narrative generation fails; scoring is
// never blocked by the text service.
const placeholderSummary = "Report generation failed. Please try again."

// SubmissionService turns a finished answer set into a score, a report,
// derived risks and actions, and a fresh organization snapshot.
type SubmissionService struct {
	db *gorm.DB
	ai clients.TextGenerator
}

// NewSubmissionService creates a submission service with injected dependencies
func NewSubmissionService(db *gorm.DB, ai clients.TextGenerator) *SubmissionService {
	return &SubmissionService{db: db, ai: ai}
}

// SubmitResult is what the caller gets back from a submission
type SubmitResult struct {
	Score            int    `json:"score"`
	RiskLevel        string `json:"risk_level"`
	OpenGaps         int    `json:"open_gaps"`
	AlreadyCompleted bool   `json:"already_completed"`
}

// narrative is the three-field report body expected from the text service
type narrative struct {
	Summary         string `json:"summary"`
	KeyFindings     string `json:"keyFindings"`
	Recommendations string `json:"recommendations"`
}

// Submit completes an assessment: flips its status under an atomic guard,
// computes the score, and generates report, risks, actions and snapshot.
// Submitting an already-completed assessment returns the stored figures
// without regenerating derived rows.
func (s *SubmissionService) Submit(ctx context.Context, userID, assessmentID uuid.UUID) (*SubmitResult, error) {
	var run assessment.Assessment
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.created_at ASC")
	}).Preload("Questions.Answers").
		Where("id = ?", assessmentID).
		First(&run).Error
	if err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Assessment not found")
	}

	if run.UserID != userID {
		return nil, apperr.New(apperr.KindForbidden, "Forbidden")
	}

	// Conditional status flip first: only the request that wins this update
	// generates derived data, so concurrent double-submits cannot duplicate
	// risks and actions.
	flip := s.db.Model(&assessment.Assessment{}).
		Where("id = ? AND status <> ?", assessmentID, assessment.StatusCompleted).
		Update("status", assessment.StatusCompleted)
	if flip.Error != nil {
		return nil, fmt.Errorf("failed to complete assessment: %w", flip.Error)
	}
	if flip.RowsAffected == 0 {
		return s.storedResult(assessmentID)
	}

	result := scoring.Score(run.Questions)

	// Narrative generation degrades to a placeholder; it must never block
	// score persistence.
	report := s.generateNarrative(ctx, result, run.Questions)

	risks := deriveRisks(&run)
	actions := deriveActions(&run, risks)

	now := time.Now().UTC()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Organization{}).
			Where("id = ?", run.OrganizationID).
			Updates(map[string]interface{}{
				"compliance_score": result.Score,
				"risk_level":       result.RiskLevel,
				"open_gaps":        result.OpenGaps,
			}).Error; err != nil {
			return fmt.Errorf("failed to update organization stats: %w", err)
		}

		reportRow := compliance.Report{
			UserID:          userID,
			OrganizationID:  run.OrganizationID,
			AssessmentID:    assessmentID,
			Score:           result.Score,
			RiskLevel:       result.RiskLevel,
			OpenGaps:        result.OpenGaps,
			Summary:         report.Summary,
			KeyFindings:     report.KeyFindings,
			Recommendations: report.Recommendations,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assessment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "risk_level", "open_gaps",
				"summary", "key_findings", "recommendations", "updated_at",
			}),
		}).Create(&reportRow).Error; err != nil {
			return fmt.Errorf("failed to upsert report: %w", err)
		}

		if len(risks) > 0 {
			if err := tx.Create(&risks).Error; err != nil {
				return fmt.Errorf("failed to insert risks: %w", err)
			}
		}

		// Actions link back to their persisted risks.
		for i := range actions {
			actions[i].RiskID = &risks[i].ID
		}
		if len(actions) > 0 {
			if err := tx.Create(&actions).Error; err != nil {
				return fmt.Errorf("failed to insert actions: %w", err)
			}
		}

		highRiskCount := 0
		for _, r := range risks {
			if r.Severity == compliance.SeverityHigh {
				highRiskCount++
			}
		}

		// Full snapshot reset: a new submission discards prior cumulative
		// action-completion progress.
		snapshot := compliance.ComplianceSnapshot{
			OrganizationID:   run.OrganizationID,
			AssessmentID:     assessmentID,
			ReadinessScore:   result.Score,
			RiskLevel:        result.RiskLevel,
			HighRiskCount:    highRiskCount,
			ActionsPending:   len(actions),
			ActionsCompleted: 0,
			ScoreImprovement: 0,
			LastAssessmentAt: &now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"assessment_id", "readiness_score", "risk_level",
				"high_risk_count", "actions_pending", "actions_completed",
				"score_improvement", "last_assessment_at", "updated_at",
			}),
		}).Create(&snapshot).Error; err != nil {
			return fmt.Errorf("failed to upsert snapshot: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Score:     result.Score,
		RiskLevel: result.RiskLevel,
		OpenGaps:  result.OpenGaps,
	}, nil
}

// storedResult returns the figures from the report of a previously completed
// assessment.
func (s *SubmissionService) storedResult(assessmentID uuid.UUID) (*SubmitResult, error) {
	var report compliance.Report
	if err := s.db.Where("assessment_id = ?", assessmentID).First(&report).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Report not found for completed assessment")
	}
	return &SubmitResult{
		Score:            report.Score,
		RiskLevel:        report.RiskLevel,
		OpenGaps:         report.OpenGaps,
		AlreadyCompleted: true,
	}, nil
}

// generateNarrative asks the text service for the three report fields,
// falling back to a fixed placeholder on any failure.
func (s *SubmissionService) generateNarrative(ctx context.Context, result scoring.Result, questions []assessment.Question) narrative {
	fallback := narrative{Summary: placeholderSummary}

	weakItems := scoring.WeakItems(questions)
	weakJSON, err := json.MarshalIndent(weakItems, "", "  ")
	if err != nil {
		weakJSON = []byte("[]")
	}

	prompt := fmt.Sprintf(`You are a cybersecurity compliance auditor.
Generate a compliance report for a business based on assessment results.

Return ONLY JSON:
{
  "summary": "...",
  "keyFindings": "...",
  "recommendations": "..."
}

Inputs:
- Compliance Score: %d%%
- Risk Level: %s
- Open Gaps: %d

Weak Questions:
%s`, result.Score, result.RiskLevel, result.OpenGaps, string(weakJSON))

	rawText, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("❌ Report narrative generation failed: %v", err)
		return fallback
	}

	var parsed narrative
	if err := extract.JSON(rawText, &parsed); err != nil || parsed.Summary == "" {
		log.Printf("❌ Report narrative unparseable, using placeholder")
		return fallback
	}

	return parsed
}

// deriveRisks creates one risk per question answered NO (high severity) or
// PARTIAL (medium), in question order. Unanswered questions stay gaps only.
func deriveRisks(run *assessment.Assessment) []compliance.Risk {
	var risks []compliance.Risk
	for _, q := range run.Questions {
		if len(q.Answers) == 0 {
			continue
		}

		var severity string
		switch q.Answers[0].Value {
		case assessment.AnswerNo:
			severity = compliance.SeverityHigh
		case assessment.AnswerPartial:
			severity = compliance.SeverityMedium
		default:
			continue
		}

		risks = append(risks, compliance.Risk{
			OrganizationID: run.OrganizationID,
			AssessmentID:   run.ID,
			Title:          q.Text,
			Severity:       severity,
			Status:         compliance.RiskStatusOpen,
		})
	}
	return risks
}

// deriveActions synthesizes one remediation action for each of the first
// risks, capped at maxActionsPerSubmission.
func deriveActions(run *assessment.Assessment, risks []compliance.Risk) []compliance.ComplianceAction {
	limit := len(risks)
	if limit > maxActionsPerSubmission {
		limit = maxActionsPerSubmission
	}

	actions := make([]compliance.ComplianceAction, 0, limit)
	for _, risk := range risks[:limit] {
		actions = append(actions, compliance.ComplianceAction{
			OrganizationID:   run.OrganizationID,
			AssessmentID:     run.ID,
			Title:            "Fix: " + risk.Title,
			Description:      actionDescription,
			ExpectedIncrease: actionExpectedIncrease,
			Status:           compliance.ActionStatusPending,
		})
	}
	return actions
}
