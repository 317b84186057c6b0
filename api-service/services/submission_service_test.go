package services

import (
	"context"
	"errors"
	"testing"

	"complyready-backend/shared/database/models"
	"complyready-backend/shared/database/models/assessment"
	"complyready-backend/shared/database/models/compliance"
	"complyready-backend/shared/utils/scoring"
)

const narrativeJSON = `{
  "summary": "Overall posture is weak.",
  "keyFindings": "No incident response plan.",
  "recommendations": "Start with access control."
}`

func TestSubmitComputesScoreAndDerivedData(t *testing.T) {
	db := openTestDB(t)
	userID, org := seedOrg(t, db)
	// YES, PARTIAL, NO, unanswered: gained 1.5 of 4.0 -> 38, High, 2 gaps.
	run := seedAssessment(t, db, userID, org, []string{
		assessment.AnswerYes, assessment.AnswerPartial, assessment.AnswerNo, "",
	})
	svc := NewSubmissionService(db, &stubGenerator{responses: []string{narrativeJSON}})

	result, err := svc.Submit(context.Background(), userID, run.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.AlreadyCompleted {
		t.Fatalf("first submission reported as already completed")
	}
	if result.Score != 38 || result.RiskLevel != scoring.RiskHigh || result.OpenGaps != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var completed assessment.Assessment
	if err := db.First(&completed, "id = ?", run.ID).Error; err != nil {
		t.Fatalf("reload assessment: %v", err)
	}
	if completed.Status != assessment.StatusCompleted {
		t.Fatalf("assessment not completed: %s", completed.Status)
	}

	var report compliance.Report
	if err := db.First(&report, "assessment_id = ?", run.ID).Error; err != nil {
		t.Fatalf("load report: %v", err)
	}
	if report.Score != 38 || report.Summary != "Overall posture is weak." {
		t.Fatalf("unexpected report: %+v", report)
	}

	// One risk per NO (high) and PARTIAL (medium), in question order.
	var risks []compliance.Risk
	if err := db.Where("assessment_id = ?", run.ID).Find(&risks).Error; err != nil {
		t.Fatalf("load risks: %v", err)
	}
	if len(risks) != 2 {
		t.Fatalf("expected 2 risks, got %d", len(risks))
	}
	severityByTitle := map[string]string{}
	for _, r := range risks {
		if r.Status != compliance.RiskStatusOpen {
			t.Fatalf("risk not open: %s", r.Status)
		}
		severityByTitle[r.Title] = r.Severity
	}
	if severityByTitle["Question B"] != compliance.SeverityMedium {
		t.Fatalf("PARTIAL answer should raise a medium risk: %+v", severityByTitle)
	}
	if severityByTitle["Question C"] != compliance.SeverityHigh {
		t.Fatalf("NO answer should raise a high risk: %+v", severityByTitle)
	}

	var actions []compliance.ComplianceAction
	if err := db.Where("assessment_id = ?", run.ID).Find(&actions).Error; err != nil {
		t.Fatalf("load actions: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	for _, action := range actions {
		if action.Status != compliance.ActionStatusPending {
			t.Fatalf("action not pending: %s", action.Status)
		}
		if action.RiskID == nil {
			t.Fatalf("action not linked to its risk")
		}
		if action.ExpectedIncrease != 5 {
			t.Fatalf("unexpected expected increase: %d", action.ExpectedIncrease)
		}
		if len(action.Title) < 5 || action.Title[:5] != "Fix: " {
			t.Fatalf("unexpected action title: %q", action.Title)
		}
	}

	var snapshot compliance.ComplianceSnapshot
	if err := db.First(&snapshot, "organization_id = ?", org.ID).Error; err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snapshot.ReadinessScore != 38 || snapshot.RiskLevel != scoring.RiskHigh {
		t.Fatalf("unexpected snapshot score: %+v", snapshot)
	}
	if snapshot.HighRiskCount != 1 || snapshot.ActionsPending != 2 ||
		snapshot.ActionsCompleted != 0 || snapshot.ScoreImprovement != 0 {
		t.Fatalf("unexpected snapshot counters: %+v", snapshot)
	}
	if snapshot.AssessmentID != run.ID {
		t.Fatalf("snapshot not pointing at submitted assessment")
	}
	if snapshot.LastAssessmentAt == nil {
		t.Fatalf("snapshot missing last assessment time")
	}

	var updatedOrg models.Organization
	if err := db.First(&updatedOrg, "id = ?", org.ID).Error; err != nil {
		t.Fatalf("reload org: %v", err)
	}
	if updatedOrg.ComplianceScore != 38 || updatedOrg.RiskLevel != scoring.RiskHigh || updatedOrg.OpenGaps != 2 {
		t.Fatalf("organization stats not updated: %+v", updatedOrg)
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	userID, org := seedOrg(t, db)
	run := seedAssessment(t, db, userID, org, []string{
		assessment.AnswerNo, assessment.AnswerNo,
	})
	svc := NewSubmissionService(db, &stubGenerator{responses: []string{narrativeJSON}})

	first, err := svc.Submit(context.Background(), userID, run.ID)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	second, err := svc.Submit(context.Background(), userID, run.ID)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !second.AlreadyCompleted {
		t.Fatalf("re-submission not flagged as already completed")
	}
	if second.Score != first.Score || second.RiskLevel != first.RiskLevel || second.OpenGaps != first.OpenGaps {
		t.Fatalf("stored figures differ: %+v vs %+v", first, second)
	}

	// Derived rows must not be duplicated.
	var riskCount int64
	if err := db.Model(&compliance.Risk{}).
		Where("assessment_id = ?", run.ID).Count(&riskCount).Error; err != nil {
		t.Fatalf("count risks: %v", err)
	}
	if riskCount != 2 {
		t.Fatalf("risks duplicated on re-submission: %d", riskCount)
	}
}

func TestSubmitNarrativeFailureUsesPlaceholder(t *testing.T) {
	db := openTestDB(t)
	userID, org := seedOrg(t, db)
	run := seedAssessment(t, db, userID, org, []string{assessment.AnswerYes})
	svc := NewSubmissionService(db, &stubGenerator{err: errors.New("upstream down")})

	result, err := svc.Submit(context.Background(), userID, run.ID)
	if err != nil {
		t.Fatalf("submit must not fail on narrative errors: %v", err)
	}
	if result.Score != 100 {
		t.Fatalf("unexpected score: %d", result.Score)
	}

	var report compliance.Report
	if err := db.First(&report, "assessment_id = ?", run.ID).Error; err != nil {
		t.Fatalf("load report: %v", err)
	}
	if report.Summary != placeholderSummary {
		t.Fatalf("placeholder not stored: %q", report.Summary)
	}
	if report.Score != 100 {
		t.Fatalf("score not persisted alongside placeholder: %d", report.Score)
	}
}

func TestSubmitCapsDerivedActions(t *testing.T) {
	db := openTestDB(t)
	userID, org := seedOrg(t, db)
	values := make([]string, 7)
	for i := range values {
		values[i] = assessment.AnswerNo
	}
	run := seedAssessment(t, db, userID, org, values)
	svc := NewSubmissionService(db, &stubGenerator{responses: []string{narrativeJSON}})

	if _, err := svc.Submit(context.Background(), userID, run.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var riskCount, actionCount int64
	db.Model(&compliance.Risk{}).Where("assessment_id = ?", run.ID).Count(&riskCount)
	db.Model(&compliance.ComplianceAction{}).Where("assessment_id = ?", run.ID).Count(&actionCount)
	if riskCount != 7 {
		t.Fatalf("expected 7 risks, got %d", riskCount)
	}
	if actionCount != int64(maxActionsPerSubmission) {
		t.Fatalf("actions not capped: %d", actionCount)
	}
}
