package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
)

// EmbeddingRepository calls the external embedding service (OpenAI-compatible
// /v1/embeddings shape). Any failure surfaces as models.ErrEmbeddingFailure so
// that callers can degrade to an empty retrieval context.
type EmbeddingRepository struct {
	config infra.EmbeddingConfiguration
	client *http.Client
}

func NewEmbeddingRepository(config infra.EmbeddingConfiguration, client *http.Client) EmbeddingRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return EmbeddingRepository{config: config, client: client}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (r EmbeddingRepository) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.Wrap(models.ErrEmbeddingFailure, "cannot embed empty text")
	}

	body, err := json.Marshal(embeddingRequest{
		Model: r.config.Model,
		Input: []string{text},
	})
	if err != nil {
		return nil, errors.Wrap(models.ErrEmbeddingFailure, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.config.BaseUrl+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(models.ErrEmbeddingFailure, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if r.config.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.config.ApiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(models.ErrEmbeddingFailure, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(models.ErrEmbeddingFailure,
			fmt.Sprintf("embedding service returned status %d", resp.StatusCode))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(models.ErrEmbeddingFailure, err.Error())
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, errors.Wrap(models.ErrEmbeddingFailure, "embedding service returned no vector")
	}

	return parsed.Data[0].Embedding, nil
}
