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

type DbPersonaOpinion struct {
	Id                uuid.UUID `db:"id"`
	ConsensusResultId uuid.UUID `db:"consensus_result_id"`
	PersonaKey        string    `db:"persona_key"`
	OverallScore      int       `db:"overall_score"`
	Scores            []byte    `db:"scores"`
	Justification     string    `db:"justification"`
	Confidence        float64   `db:"confidence"`
	SanityFlags       []string  `db:"sanity_flags"`
	CreatedAt         time.Time `db:"created_at"`
}

const TABLE_PERSONA_OPINIONS = "persona_opinions"

var PersonaOpinionFields = utils.ColumnList[DbPersonaOpinion]()

type dbCriterionScore struct {
	CriterionId string `json:"criterion_id"`
	Score       int    `json:"score"`
}

func AdaptPersonaOpinion(db DbPersonaOpinion) (models.PersonaOpinion, error) {
	var scores []dbCriterionScore
	if err := json.Unmarshal(db.Scores, &scores); err != nil {
		return models.PersonaOpinion{}, errors.Wrap(err, "can't decode persona criterion scores")
	}

	return models.PersonaOpinion{
		Id:           db.Id,
		PersonaKey:   db.PersonaKey,
		OverallScore: db.OverallScore,
		Scores: pure_utils.Map(scores, func(s dbCriterionScore) models.CriterionScore {
			return models.CriterionScore{CriterionId: s.CriterionId, Score: s.Score}
		}),
		Justification: db.Justification,
		Confidence:    db.Confidence,
		SanityFlags:   db.SanityFlags,
		CreatedAt:     db.CreatedAt,
	}, nil
}

func SerializeCriterionScoreList(scores []models.CriterionScore) ([]byte, error) {
	return json.Marshal(pure_utils.Map(scores, func(s models.CriterionScore) dbCriterionScore {
		return dbCriterionScore{CriterionId: s.CriterionId, Score: s.Score}
	}))
}
