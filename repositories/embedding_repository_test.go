package repositories

import (
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
)

func testEmbeddingRepository() EmbeddingRepository {
	return NewEmbeddingRepository(infra.EmbeddingConfiguration{
		BaseUrl: "https://embeddings.test",
		ApiKey:  "test-key",
		Model:   "text-embedding-3-small",
	}, nil)
}

func TestEmbedText_nominal(t *testing.T) {
	defer gock.Off()

	gock.New("https://embeddings.test").
		Post("/v1/embeddings").
		MatchHeader("Authorization", "Bearer test-key").
		JSON(map[string]any{
			"model": "text-embedding-3-small",
			"input": []string{"some submission text"},
		}).
		Reply(http.StatusOK).
		JSON(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1, 0.2, 0.3}},
			},
		})

	vector, err := testEmbeddingRepository().EmbedText(t.Context(), "some submission text")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
	assert.True(t, gock.IsDone())
}

func TestEmbedText_service_error(t *testing.T) {
	defer gock.Off()

	gock.New("https://embeddings.test").
		Post("/v1/embeddings").
		Reply(http.StatusInternalServerError)

	_, err := testEmbeddingRepository().EmbedText(t.Context(), "some submission text")

	assert.ErrorIs(t, err, models.ErrEmbeddingFailure)
}

func TestEmbedText_empty_vector(t *testing.T) {
	defer gock.Off()

	gock.New("https://embeddings.test").
		Post("/v1/embeddings").
		Reply(http.StatusOK).
		JSON(map[string]any{"data": []map[string]any{}})

	_, err := testEmbeddingRepository().EmbedText(t.Context(), "some submission text")

	assert.ErrorIs(t, err, models.ErrEmbeddingFailure)
}

func TestEmbedText_empty_text(t *testing.T) {
	_, err := testEmbeddingRepository().EmbedText(t.Context(), "")

	assert.ErrorIs(t, err, models.ErrEmbeddingFailure)
}
