package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/pure_utils"
)

type SubmissionBody struct {
	StudentId   string `json:"student_id" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=text code"`
	Content     string `json:"content" binding:"required"`
	Question    string `json:"question"`
	IdealAnswer string `json:"ideal_answer"`
	HarnessId   string `json:"harness_id"`
}

type RubricCriterionBody struct {
	Id          string `json:"id" binding:"required"`
	Description string `json:"description" binding:"required"`
	MaxPoints   int    `json:"max_points" binding:"required"`
}

type RubricBody struct {
	Name         string                `json:"name" binding:"required"`
	ScoringScale string                `json:"scoring_scale"`
	MaxTotal     int                   `json:"max_total" binding:"required"`
	Criteria     []RubricCriterionBody `json:"criteria" binding:"required"`
}

type CreateGradingPassBody struct {
	Submission  SubmissionBody `json:"submission" binding:"required"`
	Rubric      RubricBody     `json:"rubric" binding:"required"`
	PersonaKeys []string       `json:"persona_keys"`
	Language    string         `json:"language"`
}

func AdaptSubmission(body SubmissionBody) models.Submission {
	return models.Submission{
		StudentId:   body.StudentId,
		Kind:        models.SubmissionKindFromString(body.Kind),
		Content:     body.Content,
		Question:    body.Question,
		IdealAnswer: body.IdealAnswer,
		HarnessId:   body.HarnessId,
	}
}

func AdaptRubric(body RubricBody) models.Rubric {
	return models.Rubric{
		Name:         body.Name,
		ScoringScale: body.ScoringScale,
		MaxTotal:     body.MaxTotal,
		Criteria: pure_utils.Map(body.Criteria, func(c RubricCriterionBody) models.RubricCriterion {
			return models.RubricCriterion{
				Id:          c.Id,
				Description: c.Description,
				MaxPoints:   c.MaxPoints,
			}
		}),
	}
}

type CriterionConsensusDto struct {
	CriterionId string  `json:"criterion_id"`
	Score       float64 `json:"score"`
	MaxPoints   int     `json:"max_points"`
}

type CriterionScoreDto struct {
	CriterionId string `json:"criterion_id"`
	Score       int    `json:"score"`
}

type PersonaOpinionDto struct {
	PersonaKey    string              `json:"persona_key"`
	OverallScore  int                 `json:"overall_score"`
	Scores        []CriterionScoreDto `json:"scores"`
	Justification string              `json:"justification"`
	Confidence    float64             `json:"confidence"`
	SanityFlags   []string            `json:"sanity_flags,omitempty"`
}

type PersonaExclusionDto struct {
	PersonaKey string `json:"persona_key"`
	Reason     string `json:"reason"`
}

type SandboxTestResultDto struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	DurationMs int64  `json:"duration_ms"`
	Output     string `json:"output,omitempty"`
}

type SandboxResultDto struct {
	Status     string                 `json:"status"`
	Reason     string                 `json:"reason,omitempty"`
	Tests      []SandboxTestResultDto `json:"tests"`
	DurationMs int64                  `json:"duration_ms"`
	Stderr     string                 `json:"stderr,omitempty"`
}

type ConsensusResultDto struct {
	Id              uuid.UUID               `json:"id"`
	SubmissionId    uuid.UUID               `json:"submission_id"`
	RubricId        uuid.UUID               `json:"rubric_id"`
	OverallScore    float64                 `json:"overall_score"`
	MaxTotal        int                     `json:"max_total"`
	CriterionScores []CriterionConsensusDto `json:"criterion_scores"`
	Disagreement    float64                 `json:"disagreement"`
	RequiresReview  bool                    `json:"requires_review"`
	ReviewReasons   []string                `json:"review_reasons,omitempty"`
	Feedback        string                  `json:"feedback"`
	Opinions        []PersonaOpinionDto     `json:"opinions"`
	Exclusions      []PersonaExclusionDto   `json:"exclusions,omitempty"`
	Sandbox         *SandboxResultDto       `json:"sandbox,omitempty"`
	LmsSyncedAt     *time.Time              `json:"lms_synced_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

func AdaptConsensusResultDto(result models.ConsensusResult) ConsensusResultDto {
	dto := ConsensusResultDto{
		Id:           result.Id,
		SubmissionId: result.SubmissionId,
		RubricId:     result.RubricId,
		OverallScore: result.OverallScore,
		MaxTotal:     result.MaxTotal,
		CriterionScores: pure_utils.Map(result.CriterionScores,
			func(c models.CriterionConsensus) CriterionConsensusDto {
				return CriterionConsensusDto{CriterionId: c.CriterionId, Score: c.Score, MaxPoints: c.MaxPoints}
			}),
		Disagreement:   result.Disagreement,
		RequiresReview: result.RequiresReview,
		ReviewReasons: pure_utils.Map(result.ReviewReasons,
			func(r models.ReviewReason) string { return string(r) }),
		Feedback:    result.Feedback,
		Opinions:    pure_utils.Map(result.Opinions, AdaptPersonaOpinionDto),
		LmsSyncedAt: result.LmsSyncedAt,
		CreatedAt:   result.CreatedAt,
	}
	dto.Exclusions = pure_utils.Map(result.Exclusions, func(e models.PersonaExclusion) PersonaExclusionDto {
		return PersonaExclusionDto{PersonaKey: e.PersonaKey, Reason: e.Reason}
	})
	if result.Sandbox != nil {
		sandbox := AdaptSandboxResultDto(*result.Sandbox)
		dto.Sandbox = &sandbox
	}
	return dto
}

func AdaptPersonaOpinionDto(opinion models.PersonaOpinion) PersonaOpinionDto {
	return PersonaOpinionDto{
		PersonaKey:   opinion.PersonaKey,
		OverallScore: opinion.OverallScore,
		Scores: pure_utils.Map(opinion.Scores, func(s models.CriterionScore) CriterionScoreDto {
			return CriterionScoreDto{CriterionId: s.CriterionId, Score: s.Score}
		}),
		Justification: opinion.Justification,
		Confidence:    opinion.Confidence,
		SanityFlags:   opinion.SanityFlags,
	}
}

func AdaptSandboxResultDto(result models.SandboxResult) SandboxResultDto {
	return SandboxResultDto{
		Status: string(result.Status),
		Reason: result.Reason,
		Tests: pure_utils.Map(result.Tests, func(t models.SandboxTestResult) SandboxTestResultDto {
			return SandboxTestResultDto{
				Name:       t.Name,
				Passed:     t.Passed,
				DurationMs: t.DurationMs,
				Output:     t.Output,
			}
		}),
		DurationMs: result.DurationMs,
		Stderr:     result.Stderr,
	}
}
