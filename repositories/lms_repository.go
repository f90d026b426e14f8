package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
)

// LmsRepository pushes finalized grades to the learning management system.
// The push is best-effort with bounded backoff; on exhaustion it returns
// models.ErrExternalServiceUnavailable and the caller requeues the sync.
type LmsRepository struct {
	config infra.LmsConfiguration
	client *http.Client
}

func NewLmsRepository(config infra.LmsConfiguration, client *http.Client) LmsRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return LmsRepository{config: config, client: client}
}

type lmsGradePayload struct {
	SubmissionId uuid.UUID `json:"submission_id"`
	StudentId    string    `json:"student_id"`
	Score        float64   `json:"score"`
	MaxScore     int       `json:"max_score"`
	Feedback     string    `json:"feedback"`
}

func (r LmsRepository) PushGrade(ctx context.Context, submission models.Submission, result models.ConsensusResult) error {
	body, err := json.Marshal(lmsGradePayload{
		SubmissionId: submission.Id,
		StudentId:    submission.StudentId,
		Score:        result.OverallScore,
		MaxScore:     result.MaxTotal,
		Feedback:     result.Feedback,
	})
	if err != nil {
		return errors.Wrap(err, "can't serialize LMS grade payload")
	}

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				r.config.BaseUrl+"/grades", bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			if r.config.ApiKey != "" {
				req.Header.Set("Authorization", "Bearer "+r.config.ApiKey)
			}

			resp, err := r.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode < 300:
				return nil
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				return retry.Unrecoverable(errors.Newf("LMS rejected grade push with status %d", resp.StatusCode))
			default:
				return errors.Newf("LMS returned status %d", resp.StatusCode)
			}
		},
		retry.Context(ctx),
		retry.Attempts(uint(r.config.MaxAttempts)),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return errors.Wrap(models.ErrExternalServiceUnavailable, err.Error())
	}
	return nil
}
