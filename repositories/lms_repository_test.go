package repositories

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
)

func testLmsRepository(maxAttempts int) LmsRepository {
	return NewLmsRepository(infra.LmsConfiguration{
		BaseUrl:     "https://lms.test",
		ApiKey:      "test-key",
		MaxAttempts: maxAttempts,
	}, nil)
}

func testGradePush() (models.Submission, models.ConsensusResult) {
	submission := models.Submission{
		Id:        uuid.New(),
		StudentId: "student-42",
	}
	result := models.ConsensusResult{
		Id:           uuid.New(),
		SubmissionId: submission.Id,
		OverallScore: 13.0 / 3.0,
		MaxTotal:     10,
		Feedback:     "**Total: 4.33/10**",
	}
	return submission, result
}

func TestPushGrade_nominal(t *testing.T) {
	defer gock.Off()

	submission, result := testGradePush()

	gock.New("https://lms.test").
		Post("/grades").
		MatchHeader("Authorization", "Bearer test-key").
		JSON(map[string]any{
			"submission_id": submission.Id.String(),
			"student_id":    "student-42",
			"score":         13.0 / 3.0,
			"max_score":     10,
			"feedback":      "**Total: 4.33/10**",
		}).
		Reply(http.StatusCreated)

	err := testLmsRepository(3).PushGrade(t.Context(), submission, result)

	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestPushGrade_retries_server_errors(t *testing.T) {
	defer gock.Off()

	submission, result := testGradePush()

	gock.New("https://lms.test").
		Post("/grades").
		Reply(http.StatusServiceUnavailable)
	gock.New("https://lms.test").
		Post("/grades").
		Reply(http.StatusOK)

	err := testLmsRepository(3).PushGrade(t.Context(), submission, result)

	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestPushGrade_exhausted_retries(t *testing.T) {
	defer gock.Off()

	submission, result := testGradePush()

	gock.New("https://lms.test").
		Post("/grades").
		Persist().
		Reply(http.StatusServiceUnavailable)

	err := testLmsRepository(2).PushGrade(t.Context(), submission, result)

	assert.ErrorIs(t, err, models.ErrExternalServiceUnavailable)
}

func TestPushGrade_client_error_is_not_retried(t *testing.T) {
	defer gock.Off()

	submission, result := testGradePush()

	gock.New("https://lms.test").
		Post("/grades").
		Reply(http.StatusUnprocessableEntity)

	err := testLmsRepository(3).PushGrade(t.Context(), submission, result)

	assert.ErrorIs(t, err, models.ErrExternalServiceUnavailable)
	// A 4xx is final: no second request should have been attempted.
	assert.True(t, gock.IsDone())
	assert.False(t, gock.HasUnmatchedRequest())
}
