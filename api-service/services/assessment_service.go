package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complyready-backend/shared/clients"
	"complyready-backend/shared/database/models"
	"complyready-backend/shared/database/models/assessment"
	"complyready-backend/shared/utils/apperr"
	"complyready-backend/shared/utils/extract"
)

// AssessmentService manages the assessment lifecycle: start/resume,
// questionnaire generation, answer capture and detail fetch.
type AssessmentService struct {
	db *gorm.DB
	ai clients.TextGenerator
}

// NewAssessmentService creates an assessment service with injected dependencies
func NewAssessmentService(db *gorm.DB, ai clients.TextGenerator) *AssessmentService {
	return &AssessmentService{db: db, ai: ai}
}

// StartResult is the outcome of a start-or-resume call
type StartResult struct {
	Assessment *assessment.Assessment
	Resumed    bool
}

// generatedQuestion is one entry of the text service's JSON array
type generatedQuestion struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

// StartOrResume returns the caller's newest in-progress assessment, or
// creates a fresh one (generating its questionnaire) when none exists or
// forceNew is set. Forcing cancels any in-progress runs first.
func (s *AssessmentService) StartOrResume(ctx context.Context, userID uuid.UUID, forceNew bool) (*StartResult, error) {
	var org models.Organization
	if err := s.db.Where("owner_id = ?", userID).First(&org).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Organization not found")
	}

	if !forceNew {
		var existing assessment.Assessment
		err := s.db.Where("user_id = ? AND organization_id = ? AND status = ?",
			userID, org.ID, assessment.StatusInProgress).
			Order("created_at DESC").
			First(&existing).Error
		if err == nil {
			return &StartResult{Assessment: &existing, Resumed: true}, nil
		}
	}

	if forceNew {
		if err := s.db.Model(&assessment.Assessment{}).
			Where("user_id = ? AND organization_id = ? AND status = ?",
				userID, org.ID, assessment.StatusInProgress).
			Update("status", assessment.StatusCancelled).Error; err != nil {
			return nil, fmt.Errorf("failed to cancel previous assessments: %w", err)
		}
	}

	run := assessment.Assessment{
		UserID:         userID,
		OrganizationID: org.ID,
		Status:         assessment.StatusInProgress,
		ProfileVersion: org.ProfileVersion,
	}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	if err := s.generateQuestions(ctx, &org, run.ID); err != nil {
		// A questionless run must never be offered for resume.
		if cancelErr := s.db.Model(&assessment.Assessment{}).
			Where("id = ?", run.ID).
			Update("status", assessment.StatusCancelled).Error; cancelErr != nil {
			log.Printf("❌ Failed to cancel assessment %s after generation failure: %v", run.ID, cancelErr)
		}
		return nil, err
	}

	return &StartResult{Assessment: &run, Resumed: false}, nil
}

// generateQuestions calls the text service once and persists the parsed
// questionnaire. No automatic retry: a failure is surfaced and the user may
// start again.
func (s *AssessmentService) generateQuestions(ctx context.Context, org *models.Organization, assessmentID uuid.UUID) error {
	prompt := questionnairePrompt(org)

	rawText, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		return apperr.Wrap(apperr.KindGenerationEmpty, "Questionnaire generation failed", err)
	}
	if rawText == "" {
		return apperr.New(apperr.KindGenerationEmpty, "Text service returned empty response")
	}

	var generated []generatedQuestion
	if err := extract.JSON(rawText, &generated); err != nil {
		return apperr.Wrap(apperr.KindGenerationInvalidFormat, "Text service returned invalid JSON", err).
			WithDetail(rawText)
	}

	questions := make([]assessment.Question, 0, len(generated))
	for _, g := range generated {
		if g.Text == "" {
			continue
		}

		category := g.Category
		if !assessment.ValidCategory(category) {
			category = assessment.CategoryGeneral
		}

		weight := g.Weight
		if weight <= 0 {
			weight = 1
		}

		questions = append(questions, assessment.Question{
			AssessmentID: assessmentID,
			Text:         g.Text,
			Category:     category,
			Weight:       weight,
		})
	}

	if len(questions) == 0 {
		return apperr.New(apperr.KindGenerationInvalidFormat, "Text service returned no usable questions").
			WithDetail(rawText)
	}

	if err := s.db.Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to persist questions: %w", err)
	}

	return nil
}

// GetAssessment returns the full question+answer tree, ownership-checked
func (s *AssessmentService) GetAssessment(userID, assessmentID uuid.UUID) (*assessment.Assessment, error) {
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

	return &run, nil
}

// RecordAnswer replaces the question's answer with the given value. Notes
// from a prior answer are not carried over. Delete and insert run in one
// transaction so the question never ends up with zero or two answers.
func (s *AssessmentService) RecordAnswer(userID, questionID uuid.UUID, value string, notes *string) (*assessment.Answer, error) {
	if !assessment.ValidAnswerValue(value) {
		return nil, apperr.New(apperr.KindValidation, "Answer value must be YES, PARTIAL or NO")
	}

	var question assessment.Question
	if err := s.db.Where("id = ?", questionID).First(&question).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Question not found")
	}

	var run assessment.Assessment
	if err := s.db.Where("id = ?", question.AssessmentID).First(&run).Error; err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Assessment not found")
	}
	if run.UserID != userID {
		return nil, apperr.New(apperr.KindForbidden, "Forbidden")
	}

	answer := assessment.Answer{
		QuestionID: questionID,
		Value:      value,
		Notes:      notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).
			Delete(&assessment.Answer{}).Error; err != nil {
			return err
		}
		return tx.Create(&answer).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	return &answer, nil
}

func questionnairePrompt(org *models.Organization) string {
	return fmt.Sprintf(`You are a cybersecurity compliance expert.
Generate a compliance assessment questionnaire.

Organization:
- Name: %s
- Industry: %s
- Company size: %s
- Country: %s
- Handles PII: %t
- Handles Payments: %t

Return ONLY valid JSON array like:
[
  { "text": "...", "category": "Access Control|Data|Network|Policy|Incident|Vendor", "weight": 1 }
]

Generate exactly 20 questions.
No explanation, no markdown.`,
		org.Name, org.Industry, org.CompanySize, org.Country, org.HandlesPII, org.HandlesPayments)
}
