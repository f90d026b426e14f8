package dbmodels

import (
	"time"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/utils"
)

type DbPersonaConfig struct {
	Key             string    `db:"key"`
	Name            string    `db:"name"`
	Model           string    `db:"model"`
	Strictness      float64   `db:"strictness"`
	Tone            string    `db:"tone"`
	ConsumesSandbox bool      `db:"consumes_sandbox"`
	MaxAttempts     int       `db:"max_attempts"`
	CreatedAt       time.Time `db:"created_at"`
}

const TABLE_PERSONA_CONFIGS = "persona_configs"

var PersonaConfigFields = utils.ColumnList[DbPersonaConfig]()

func AdaptPersonaConfig(db DbPersonaConfig) (models.PersonaConfig, error) {
	return models.PersonaConfig{
		Key:             db.Key,
		Name:            db.Name,
		Model:           db.Model,
		Strictness:      db.Strictness,
		Tone:            db.Tone,
		ConsumesSandbox: db.ConsumesSandbox,
		MaxAttempts:     db.MaxAttempts,
	}, nil
}
