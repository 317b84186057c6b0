package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complyready-backend/shared/clients"
	"complyready-backend/shared/database/models"
	"complyready-backend/shared/database/models/compliance"
	"complyready-backend/shared/utils/apperr"
	"complyready-backend/shared/utils/scoring"
)

// ActionService tracks remediation-action status transitions and keeps the
// organization snapshot in step with completions.
type ActionService struct {
	db *gorm.DB
	ai clients.TextGenerator
}

// NewActionService creates an action service with injected dependencies
func NewActionService(db *gorm.DB, ai clients.TextGenerator) *ActionService {
	return &ActionService{db: db, ai: ai}
}

// StatusResult reports what a status update did
type StatusResult struct {
	// NoOp is set when the action was already completed; terminal state
	// updates always succeed without touching anything.
	NoOp      bool
	Completed bool

	// Snapshot is the recalculated snapshot, set only on completion.
	Snapshot *compliance.ComplianceSnapshot
}

// UpdateStatus applies a monotonic status transition. Only a transition into
// COMPLETED triggers snapshot recalculation.
func (s *ActionService) UpdateStatus(userID, actionID uuid.UUID, newStatus string) (*StatusResult, error) {
	if !compliance.ValidActionStatus(newStatus) {
		return nil, apperr.New(apperr.KindValidation, "Status must be PENDING, IN_PROGRESS or COMPLETED")
	}

	var org models.Organization
	if err := s.db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Organization not found")
	}

	var action compliance.ComplianceAction
	if err := s.db.Where("id = ?", actionID).First(&action).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Action not found")
	}
	if action.OrganizationID != org.ID {
		return nil, apperr.New(apperr.KindForbidden, "Forbidden")
	}

	if action.Status == compliance.ActionStatusCompleted {
		return &StatusResult{NoOp: true}, nil
	}

	validTransition := (action.Status == compliance.ActionStatusPending &&
		(newStatus == compliance.ActionStatusInProgress || newStatus == compliance.ActionStatusCompleted)) ||
		(action.Status == compliance.ActionStatusInProgress && newStatus == compliance.ActionStatusCompleted)

	if !validTransition {
		return nil, apperr.New(apperr.KindInvalidTransition,
			fmt.Sprintf("Cannot transition action from %s to %s", action.Status, newStatus))
	}

	var updated *compliance.ComplianceSnapshot
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&compliance.ComplianceAction{}).
			Where("id = ?", actionID).
			Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update action status: %w", err)
		}

		if newStatus != compliance.ActionStatusCompleted {
			return nil
		}

		snapshot, err := recalculateSnapshot(tx, org.ID, &action)
		if err != nil {
			return err
		}
		updated = snapshot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Completed: newStatus == compliance.ActionStatusCompleted,
		Snapshot:  updated,
	}, nil
}

// recalculateSnapshot applies the incremental score bump of one completed
// action: additive, capped at 100, never recomputed from the answers.
func recalculateSnapshot(tx *gorm.DB, orgID uuid.UUID, action *compliance.ComplianceAction) (*compliance.ComplianceSnapshot, error) {
	var snapshot compliance.ComplianceSnapshot
	if err := tx.Where("organization_id = ?", orgID).First(&snapshot).Error; err != nil {
		// Missing snapshot is treated as a zero baseline.
		snapshot = compliance.ComplianceSnapshot{
			OrganizationID: orgID,
			AssessmentID:   action.AssessmentID,
		}
	}

	newScore := snapshot.ReadinessScore + action.ExpectedIncrease
	if newScore > 100 {
		newScore = 100
	}

	// All non-completed actions organization-wide; the just-completed action
	// is already excluded by the preceding status update.
	var openActions int64
	if err := tx.Model(&compliance.ComplianceAction{}).
		Where("organization_id = ? AND status <> ?", orgID, compliance.ActionStatusCompleted).
		Count(&openActions).Error; err != nil {
		return nil, fmt.Errorf("failed to count open actions: %w", err)
	}

	now := time.Now().UTC()

	snapshot.ReadinessScore = newScore
	snapshot.RiskLevel = scoring.RiskLevel(newScore)
	snapshot.HighRiskCount = int(openActions)
	snapshot.ActionsPending--
	snapshot.ActionsCompleted++
	snapshot.ScoreImprovement += action.ExpectedIncrease
	snapshot.LastAssessmentAt = &now

	if err := tx.Save(&snapshot).Error; err != nil {
		return nil, fmt.Errorf("failed to update snapshot: %w", err)
	}

	return &snapshot, nil
}

// GetAction returns an action, generating its remediation steps on first
// read. A failed generation leaves the field empty rather than failing the
// fetch.
func (s *ActionService) GetAction(ctx context.Context, userID, actionID uuid.UUID) (*compliance.ComplianceAction, error) {
	var action compliance.ComplianceAction
	if err := s.db.Where("id = ?", actionID).First(&action).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Action not found")
	}

	var org models.Organization
	if err := s.db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		return nil, apperr.New(apperr.KindForbidden, "Forbidden")
	}
	if action.OrganizationID != org.ID {
		return nil, apperr.New(apperr.KindForbidden, "Forbidden")
	}

	if action.RemediationSteps == "" {
		steps, err := s.ai.GenerateText(ctx, remediationPrompt(action.Title))
		if err != nil {
			log.Printf("❌ Remediation steps generation failed for action %s: %v", action.ID, err)
			return &action, nil
		}
		if steps == "" {
			return &action, nil
		}

		if err := s.db.Model(&compliance.ComplianceAction{}).
			Where("id = ?", action.ID).
			Update("remediation_steps", steps).Error; err != nil {
			return nil, fmt.Errorf("failed to persist remediation steps: %w", err)
		}
		action.RemediationSteps = steps
	}

	return &action, nil
}

// ListActions returns the caller's actions for the snapshot's assessment,
// oldest first.
func (s *ActionService) ListActions(userID uuid.UUID) ([]compliance.ComplianceAction, error) {
	var org models.Organization
	if err := s.db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Organization not found")
	}

	var snapshot compliance.ComplianceSnapshot
	if err := s.db.Where("organization_id = ?", org.ID).First(&snapshot).Error; err != nil {
		return []compliance.ComplianceAction{}, nil
	}

	var actions []compliance.ComplianceAction
	if err := s.db.Where("organization_id = ? AND assessment_id = ?", org.ID, snapshot.AssessmentID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	return actions, nil
}

func remediationPrompt(title string) string {
	return fmt.Sprintf(`You are a cybersecurity compliance expert.
For this compliance gap: "%s"

Generate:
1. A concise summary of the issue
2. Clear explanation of risk
3. Step-by-step remediation workflow in bullet points

Make it practical for small companies. Don't use big words. Don't use # tags
or **. Number the bullet points instead of using - or *. No intro, just the
raw response.`, title)
}
