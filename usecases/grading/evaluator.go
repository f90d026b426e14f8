package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/checkmarble/llmberjack"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/pure_utils"
)

const (
	defaultPersonaTimeout  = 60 * time.Second
	defaultPersonaAttempts = 3
	maxExemplarChars       = 700
)

type personaCriterionScore struct {
	Criteria string `json:"criteria"`
	Score    int    `json:"score"`
}

type personaOutput struct {
	TotalScore   int                     `json:"total_score"`
	RubricScores []personaCriterionScore `json:"rubric_scores"`
	Feedback     string                  `json:"feedback"`
	Confidence   float64                 `json:"confidence"`
}

// personaResponseSchema constrains the structured output to the rubric at
// hand: criterion ids are an enum of the actual rubric ids, so the model
// cannot invent criteria that alignment would then have to throw away.
func personaResponseSchema(rubric models.Rubric) jsonschema.Schema {
	criterionIds := pure_utils.Map(rubric.Criteria, func(c models.RubricCriterion) string { return c.Id })

	scoreProps := jsonschema.NewProperties()
	scoreProps.Set("criteria", &jsonschema.Schema{
		Type:        "string",
		Enum:        pure_utils.ToAnySlice(criterionIds),
		Description: "The id of the rubric criterion, copied exactly from the rubric",
	})
	scoreProps.Set("score", &jsonschema.Schema{
		Type:        "integer",
		Description: "Integer score awarded for this criterion, between 0 and its max_points inclusive",
	})

	props := jsonschema.NewProperties()
	props.Set("total_score", &jsonschema.Schema{
		Type:        "integer",
		Description: "Sum of the rubric item scores",
	})
	props.Set("rubric_scores", &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type:       "object",
			Properties: scoreProps,
			Required:   []string{"criteria", "score"},
		},
		Description: "One entry per rubric criterion, same ids as the rubric",
	})
	props.Set("feedback", &jsonschema.Schema{
		Type:        "string",
		Description: "Concise feedback justifying every deduction",
	})
	props.Set("confidence", &jsonschema.Schema{
		Type:        "number",
		Description: "Self-assessed grading confidence between 0 and 1",
	})

	return jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"total_score", "rubric_scores", "feedback", "confidence"},
	}
}

// GradingContext is everything one persona sees for one submission.
type GradingContext struct {
	Submission models.Submission
	Rubric     models.Rubric
	Exemplars  []models.RetrievedCorrection
	Sandbox    *models.SandboxResult
	Language   string
}

// Evaluator runs a single persona over a grading context. All personas share
// this implementation and differ only by their PersonaConfig.
type Evaluator struct {
	provider *LlmClientProvider
	config   infra.GraderConfiguration
}

func NewEvaluator(provider *LlmClientProvider, config infra.GraderConfiguration) Evaluator {
	return Evaluator{
		provider: provider,
		config:   config,
	}
}

func (e Evaluator) Evaluate(ctx context.Context,
	persona models.PersonaConfig,
	gradingContext GradingContext,
) (models.PersonaOpinion, error) {
	client, err := e.provider.GetClient()
	if err != nil {
		return models.PersonaOpinion{}, errors.Wrap(models.ErrPersonaFailure, err.Error())
	}

	systemInstruction, err := readPrompt(SYSTEM_PROMPT_PATH)
	if err != nil {
		return models.PersonaOpinion{}, errors.Wrap(models.ErrPersonaFailure, err.Error())
	}

	rubricJson, err := serializeRubricForPrompt(gradingContext.Rubric)
	if err != nil {
		return models.PersonaOpinion{}, errors.Wrap(models.ErrPersonaFailure, err.Error())
	}

	sandboxBlock := ""
	if persona.ConsumesSandbox && gradingContext.Sandbox != nil {
		sandboxBlock = formatSandboxBlock(*gradingContext.Sandbox)
	}

	prompt, err := preparePrompt(PROMPT_PERSONA_PATH, map[string]string{
		"persona_name":   persona.Name,
		"tone":           persona.Tone,
		"strictness":     fmt.Sprintf("%.1f", persona.Strictness),
		"question":       gradingContext.Submission.Question,
		"ideal_answer":   gradingContext.Submission.IdealAnswer,
		"rubric_json":    rubricJson,
		"student_answer": gradingContext.Submission.Content,
		"exemplar_block": formatExemplarBlock(gradingContext.Exemplars),
		"sandbox_block":  sandboxBlock,
		"language":       gradingContext.Language,
	})
	if err != nil {
		return models.PersonaOpinion{}, errors.Wrap(models.ErrPersonaFailure, err.Error())
	}

	model := persona.Model
	if model == "" {
		model = e.config.DefaultModel
	}
	timeout := e.config.PersonaTimeout
	if timeout <= 0 {
		timeout = defaultPersonaTimeout
	}
	attempts := persona.MaxAttempts
	if attempts <= 0 {
		attempts = defaultPersonaAttempts
	}

	var out personaOutput
	err = retry.Do(
		func() error {
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			response, err := llmberjack.NewRequest[personaOutput]().
				OverrideResponseSchema(personaResponseSchema(gradingContext.Rubric)).
				WithModel(model).
				WithThinking(false).
				WithInstruction(systemInstruction).
				WithText(llmberjack.RoleUser, prompt).
				Do(callCtx, client)
			if err != nil {
				return errors.Wrapf(err, "persona %s request failed", persona.Key)
			}
			out, err = response.Get(0)
			if err != nil {
				return errors.Wrapf(err, "could not read persona %s response", persona.Key)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return models.PersonaOpinion{}, errors.Wrap(models.ErrPersonaFailure, err.Error())
	}

	scores, total, flags := alignAndClamp(gradingContext.Rubric, out.RubricScores, out.TotalScore)

	confidence := out.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return models.PersonaOpinion{
		Id:            uuid.New(),
		PersonaKey:    persona.Key,
		OverallScore:  total,
		Scores:        scores,
		Justification: strings.TrimSpace(out.Feedback),
		Confidence:    confidence,
		SanityFlags:   flags,
		CreatedAt:     time.Now(),
	}, nil
}

func serializeRubricForPrompt(rubric models.Rubric) (string, error) {
	type promptCriterion struct {
		Id          string `json:"id"`
		Description string `json:"description"`
		MaxPoints   int    `json:"max_points"`
	}

	serialized, err := json.Marshal(pure_utils.Map(rubric.Criteria, func(c models.RubricCriterion) promptCriterion {
		return promptCriterion{Id: c.Id, Description: c.Description, MaxPoints: c.MaxPoints}
	}))
	if err != nil {
		return "", errors.Wrap(err, "could not serialize rubric")
	}
	return string(serialized), nil
}

func formatExemplarBlock(exemplars []models.RetrievedCorrection) string {
	if len(exemplars) == 0 {
		return ""
	}

	snippets := make([]string, 0, len(exemplars))
	for i, exemplar := range exemplars {
		text := exemplar.Record.SubmissionContent
		if len(text) > maxExemplarChars {
			text = text[:maxExemplarChars]
		}
		snippets = append(snippets, fmt.Sprintf("Exemplar %d (verified score %s):\n%s\nVerified feedback: %s",
			i+1, formatScore(exemplar.Record.CorrectedScore), text, exemplar.Record.CorrectedFeedback))
	}
	return "Previously graded answers, verified by a human (consistency reference):\n" +
		strings.Join(snippets, "\n\n")
}

func formatSandboxBlock(result models.SandboxResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Isolated execution of the student code (status %s): %d/%d harness tests passed.\n",
		result.Status, result.PassedCount(), len(result.Tests))
	if result.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", result.Reason)
	}
	for _, test := range result.Tests {
		verdict := "failed"
		if test.Passed {
			verdict = "passed"
		}
		fmt.Fprintf(&b, "- %s: %s\n", test.Name, verdict)
	}
	if result.Stderr != "" {
		fmt.Fprintf(&b, "Stderr:\n%s\n", result.Stderr)
	}
	return b.String()
}
