package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/pure_utils"
	"github.com/campuskit/grader-backend/utils"
)

type DbConsensusResult struct {
	Id           uuid.UUID `db:"id"`
	SubmissionId uuid.UUID `db:"submission_id"`
	RubricId     uuid.UUID `db:"rubric_id"`

	OverallScore    float64 `db:"overall_score"`
	MaxTotal        int     `db:"max_total"`
	CriterionScores []byte  `db:"criterion_scores"`

	Disagreement   float64  `db:"disagreement"`
	RequiresReview bool     `db:"requires_review"`
	ReviewReasons  []string `db:"review_reasons"`

	Feedback   string `db:"feedback"`
	Exclusions []byte `db:"exclusions"`
	Sandbox    []byte `db:"sandbox"`

	LmsSyncedAt *time.Time `db:"lms_synced_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

const TABLE_CONSENSUS_RESULTS = "consensus_results"

var ConsensusResultFields = utils.ColumnList[DbConsensusResult]()

type dbCriterionConsensus struct {
	CriterionId string  `json:"criterion_id"`
	Score       float64 `json:"score"`
	MaxPoints   int     `json:"max_points"`
}

type dbPersonaExclusion struct {
	PersonaKey string `json:"persona_key"`
	Reason     string `json:"reason"`
}

func AdaptConsensusResult(db DbConsensusResult) (models.ConsensusResult, error) {
	var criterionScores []dbCriterionConsensus
	if err := json.Unmarshal(db.CriterionScores, &criterionScores); err != nil {
		return models.ConsensusResult{}, errors.Wrap(err, "can't decode criterion scores")
	}

	var exclusions []dbPersonaExclusion
	if len(db.Exclusions) > 0 {
		if err := json.Unmarshal(db.Exclusions, &exclusions); err != nil {
			return models.ConsensusResult{}, errors.Wrap(err, "can't decode persona exclusions")
		}
	}

	var sandbox *models.SandboxResult
	if len(db.Sandbox) > 0 {
		sandbox = &models.SandboxResult{}
		if err := json.Unmarshal(db.Sandbox, sandbox); err != nil {
			return models.ConsensusResult{}, errors.Wrap(err, "can't decode sandbox result")
		}
	}

	return models.ConsensusResult{
		Id:           db.Id,
		SubmissionId: db.SubmissionId,
		RubricId:     db.RubricId,
		OverallScore: db.OverallScore,
		MaxTotal:     db.MaxTotal,
		CriterionScores: pure_utils.Map(criterionScores, func(c dbCriterionConsensus) models.CriterionConsensus {
			return models.CriterionConsensus{CriterionId: c.CriterionId, Score: c.Score, MaxPoints: c.MaxPoints}
		}),
		Disagreement:   db.Disagreement,
		RequiresReview: db.RequiresReview,
		ReviewReasons: pure_utils.Map(db.ReviewReasons, func(r string) models.ReviewReason {
			return models.ReviewReason(r)
		}),
		Feedback: db.Feedback,
		Exclusions: pure_utils.Map(exclusions, func(e dbPersonaExclusion) models.PersonaExclusion {
			return models.PersonaExclusion{PersonaKey: e.PersonaKey, Reason: e.Reason}
		}),
		Sandbox:     sandbox,
		LmsSyncedAt: db.LmsSyncedAt,
		CreatedAt:   db.CreatedAt,
	}, nil
}

func SerializeCriterionScores(scores []models.CriterionConsensus) ([]byte, error) {
	return json.Marshal(pure_utils.Map(scores, func(c models.CriterionConsensus) dbCriterionConsensus {
		return dbCriterionConsensus{CriterionId: c.CriterionId, Score: c.Score, MaxPoints: c.MaxPoints}
	}))
}

func SerializeExclusions(exclusions []models.PersonaExclusion) ([]byte, error) {
	return json.Marshal(pure_utils.Map(exclusions, func(e models.PersonaExclusion) dbPersonaExclusion {
		return dbPersonaExclusion{PersonaKey: e.PersonaKey, Reason: e.Reason}
	}))
}

func SerializeSandboxResult(result models.SandboxResult) ([]byte, error) {
	return json.Marshal(result)
}
