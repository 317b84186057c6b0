package services

import (
	"context"
	"errors"
	"testing"

	"complyready-backend/shared/database/models/assessment"
	"complyready-backend/shared/utils/apperr"
)

const questionnaireJSON = "```json\n" + `[
  { "text": "Do you enforce MFA for all admin accounts?", "category": "Access Control", "weight": 3 },
  { "text": "Is customer data encrypted at rest?", "category": "Nonsense Category", "weight": 0 },
  { "text": "", "category": "Policy", "weight": 1 },
  { "text": "Do you have an incident response plan?", "category": "Incident", "weight": 2 }
]` + "\n```"

func TestStartGeneratesQuestionnaire(t *testing.T) {
	db := openTestDB(t)
	userID, _ := seedOrg(t, db)
	gen := &stubGenerator{responses: []string{questionnaireJSON}}
	svc := NewAssessmentService(db, gen)

	result, err := svc.StartOrResume(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if result.Resumed {
		t.Fatalf("fresh start reported as resumed")
	}
	if result.Assessment.Status != assessment.StatusInProgress {
		t.Fatalf("unexpected status: %s", result.Assessment.Status)
	}

	var questions []assessment.Question
	if err := db.Where("assessment_id = ?", result.Assessment.ID).
		Order("created_at ASC").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}

	// The empty-text entry is skipped.
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[0].Category != assessment.CategoryAccessControl || questions[0].Weight != 3 {
		t.Fatalf("question 0 not persisted as generated: %+v", questions[0])
	}
	// Unknown category maps to General, non-positive weight to 1.
	if questions[1].Category != assessment.CategoryGeneral {
		t.Fatalf("unknown category not mapped to General: %s", questions[1].Category)
	}
	if questions[1].Weight != 1 {
		t.Fatalf("non-positive weight not defaulted: %v", questions[1].Weight)
	}
}

func TestStartResumesInProgressAssessment(t *testing.T) {
	db := openTestDB(t)
	userID, _ := seedOrg(t, db)
	svc := NewAssessmentService(db, &stubGenerator{responses: []string{questionnaireJSON}})

	first, err := svc.StartOrResume(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}

	// A second start must hand back the same run without calling the
	// text service again.
	gen := &stubGenerator{}
	svc = NewAssessmentService(db, gen)
	second, err := svc.StartOrResume(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !second.Resumed {
		t.Fatalf("expected resume of in-progress assessment")
	}
	if second.Assessment.ID != first.Assessment.ID {
		t.Fatalf("resumed a different assessment")
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("resume must not regenerate the questionnaire")
	}
}

func TestForceNewCancelsPreviousRun(t *testing.T) {
	db := openTestDB(t)
	userID, _ := seedOrg(t, db)
	svc := NewAssessmentService(db, &stubGenerator{responses: []string{questionnaireJSON, questionnaireJSON}})

	first, err := svc.StartOrResume(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}

	second, err := svc.StartOrResume(context.Background(), userID, true)
	if err != nil {
		t.Fatalf("forced start: %v", err)
	}
	if second.Resumed {
		t.Fatalf("forced start must not resume")
	}
	if second.Assessment.ID == first.Assessment.ID {
		t.Fatalf("forced start reused the previous run")
	}

	var previous assessment.Assessment
	if err := db.First(&previous, "id = ?", first.Assessment.ID).Error; err != nil {
		t.Fatalf("reload previous: %v", err)
	}
	if previous.Status != assessment.StatusCancelled {
		t.Fatalf("previous run not cancelled: %s", previous.Status)
	}
}

func TestGenerationFailureCancelsFreshRun(t *testing.T) {
	db := openTestDB(t)
	userID, _ := seedOrg(t, db)
	svc := NewAssessmentService(db, &stubGenerator{err: errors.New("upstream down")})

	_, err := svc.StartOrResume(context.Background(), userID, false)
	if err == nil {
		t.Fatalf("expected generation failure")
	}
	if apperr.KindOf(err) != apperr.KindGenerationEmpty {
		t.Fatalf("unexpected error kind: %s", apperr.KindOf(err))
	}

	// The questionless run must not be offered for resume afterwards.
	var inProgress int64
	if err := db.Model(&assessment.Assessment{}).
		Where("user_id = ? AND status = ?", userID, assessment.StatusInProgress).
		Count(&inProgress).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if inProgress != 0 {
		t.Fatalf("questionless run left in progress")
	}
}

func TestUnparseableGenerationCancelsFreshRun(t *testing.T) {
	db := openTestDB(t)
	userID, _ := seedOrg(t, db)
	svc := NewAssessmentService(db, &stubGenerator{responses: []string{"Sorry, I cannot help with that."}})

	_, err := svc.StartOrResume(context.Background(), userID, false)
	if err == nil {
		t.Fatalf("expected invalid-format failure")
	}
	if apperr.KindOf(err) != apperr.KindGenerationInvalidFormat {
		t.Fatalf("unexpected error kind: %s", apperr.KindOf(err))
	}
	if apperr.Detail(err) == "" {
		t.Fatalf("invalid-format error should carry the raw response")
	}
}

func TestRecordAnswerReplacesPrevious(t *testing.T) {
	db := openTestDB(t)
	userID, org := seedOrg(t, db)
	run := seedAssessment(t, db, userID, org, []string{""})
	svc := NewAssessmentService(db, &stubGenerator{})

	var question assessment.Question
	if err := db.First(&question, "assessment_id = ?", run.ID).Error; err != nil {
		t.Fatalf("load question: %v", err)
	}

	notes := "we roll keys quarterly"
	if _, err := svc.RecordAnswer(userID, question.ID, assessment.AnswerYes, &notes); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if _, err := svc.RecordAnswer(userID, question.ID, assessment.AnswerNo, nil); err != nil {
		t.Fatalf("second answer: %v", err)
	}

	var answers []assessment.Answer
	if err := db.Where("question_id = ?", question.ID).Find(&answers).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("expected exactly one answer, got %d", len(answers))
	}
	if answers[0].Value != assessment.AnswerNo {
		t.Fatalf("answer not replaced: %s", answers[0].Value)
	}
	// Notes from the replaced answer are not carried over.
	if answers[0].Notes != nil {
		t.Fatalf("stale notes carried over: %q", *answers[0].Notes)
	}
}

func TestRecordAnswerRejectsInvalidValue(t *testing.T) {
	db := openTestDB(t)
	userID, org := seedOrg(t, db)
	run := seedAssessment(t, db, userID, org, []string{""})
	svc := NewAssessmentService(db, &stubGenerator{})

	var question assessment.Question
	if err := db.First(&question, "assessment_id = ?", run.ID).Error; err != nil {
		t.Fatalf("load question: %v", err)
	}

	_, err := svc.RecordAnswer(userID, question.ID, "MAYBE", nil)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordAnswerEnforcesOwnership(t *testing.T) {
	db := openTestDB(t)
	ownerID, org := seedOrg(t, db)
	run := seedAssessment(t, db, ownerID, org, []string{""})
	strangerID, _ := seedOrg(t, db)
	svc := NewAssessmentService(db, &stubGenerator{})

	var question assessment.Question
	if err := db.First(&question, "assessment_id = ?", run.ID).Error; err != nil {
		t.Fatalf("load question: %v", err)
	}

	_, err := svc.RecordAnswer(strangerID, question.ID, assessment.AnswerYes, nil)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
