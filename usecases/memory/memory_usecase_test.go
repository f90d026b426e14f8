package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/repositories"
)

type fakeExecutorFactory struct{}

func (fakeExecutorFactory) NewExecutor() repositories.Executor { return nil }

func (fakeExecutorFactory) Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error {
	return fn(nil)
}

// correctionStoreFake is an in-memory stand-in for the correction table.
type correctionStoreFake struct {
	records []models.CorrectionRecord
}

func (f *correctionStoreFake) CreateCorrectionRecord(ctx context.Context, exec repositories.Executor, record models.CorrectionRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *correctionStoreFake) GetCorrectionRecordByContentHash(ctx context.Context, exec repositories.Executor,
	contentHash string,
) (*models.CorrectionRecord, error) {
	for _, record := range f.records {
		if record.ContentHash == contentHash {
			return &record, nil
		}
	}
	return nil, nil
}

func (f *correctionStoreFake) GetCorrectionRecordById(ctx context.Context, exec repositories.Executor,
	recordId uuid.UUID,
) (models.CorrectionRecord, error) {
	for _, record := range f.records {
		if record.Id == recordId {
			return record, nil
		}
	}
	return models.CorrectionRecord{}, errors.Wrap(models.NotFoundError, "correction record not found")
}

func (f *correctionStoreFake) ListCorrectionRecords(ctx context.Context, exec repositories.Executor) ([]models.CorrectionRecord, error) {
	return f.records, nil
}

func (f *correctionStoreFake) DeleteCorrectionRecord(ctx context.Context, exec repositories.Executor, recordId uuid.UUID) error {
	for i, record := range f.records {
		if record.Id == recordId {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return errors.Wrap(models.NotFoundError, "correction record not found")
}

// embeddingStub returns a fixed vector per text so similarity is predictable.
type embeddingStub struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *embeddingStub) EmbedText(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if vector, ok := s.vectors[text]; ok {
		return vector, nil
	}
	return []float32{1, 0, 0}, nil
}

func makeUsecase(store *correctionStoreFake, embedder *embeddingStub) *MemoryUsecase {
	return NewMemoryUsecase(fakeExecutorFactory{}, fakeExecutorFactory{}, store, embedder)
}

func newCorrectionInput(content string, score float64) models.NewCorrectionRecord {
	return models.NewCorrectionRecord{
		RubricId:          uuid.New(),
		SubmissionContent: content,
		CorrectedScore:    score,
		CorrectedFeedback: "verified by instructor",
	}
}

func TestMemoryQuery_empty_store(t *testing.T) {
	embedder := &embeddingStub{}
	uc := makeUsecase(&correctionStoreFake{}, embedder)

	hits, err := uc.Query(context.Background(), "anything", 3)

	require.NoError(t, err)
	assert.Empty(t, hits)
	// No point paying for an embedding when there is nothing to compare against.
	assert.Zero(t, embedder.calls)
}

func TestMemoryQuery_rejects_non_positive_k(t *testing.T) {
	uc := makeUsecase(&correctionStoreFake{}, &embeddingStub{})

	_, err := uc.Query(context.Background(), "anything", 0)

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestMemoryAddCorrection_read_after_write(t *testing.T) {
	store := &correctionStoreFake{}
	embedder := &embeddingStub{vectors: map[string][]float32{
		"the mitochondria is the powerhouse of the cell": {0, 1, 0},
	}}
	uc := makeUsecase(store, embedder)

	record, err := uc.AddCorrection(context.Background(),
		newCorrectionInput("the mitochondria is the powerhouse of the cell", 7.5))
	require.NoError(t, err)
	require.Len(t, store.records, 1)

	hits, err := uc.Query(context.Background(), "the mitochondria is the powerhouse of the cell", 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, record.Id, hits[0].Record.Id)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestMemoryAddCorrection_is_idempotent_on_content(t *testing.T) {
	store := &correctionStoreFake{}
	uc := makeUsecase(store, &embeddingStub{})

	input := newCorrectionInput("same submission", 5)
	first, err := uc.AddCorrection(context.Background(), input)
	require.NoError(t, err)

	second, err := uc.AddCorrection(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Len(t, store.records, 1)
}

func TestMemoryAddCorrection_embedding_failure_fails_the_write(t *testing.T) {
	store := &correctionStoreFake{}
	embedder := &embeddingStub{err: errors.Wrap(models.ErrEmbeddingFailure, "service down")}
	uc := makeUsecase(store, embedder)

	_, err := uc.AddCorrection(context.Background(), newCorrectionInput("some submission", 5))

	assert.ErrorIs(t, err, models.ErrEmbeddingFailure)
	assert.Empty(t, store.records)
}

func TestMemoryQuery_orders_by_similarity(t *testing.T) {
	store := &correctionStoreFake{}
	embedder := &embeddingStub{vectors: map[string][]float32{
		"close answer":  {0.9, 0.1, 0},
		"far answer":    {0, 0, 1},
		"exact answer":  {1, 0, 0},
		"query content": {1, 0, 0},
	}}
	uc := makeUsecase(store, embedder)

	for _, content := range []string{"close answer", "far answer", "exact answer"} {
		_, err := uc.AddCorrection(context.Background(), newCorrectionInput(content, 5))
		require.NoError(t, err)
	}

	hits, err := uc.Query(context.Background(), "query content", 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "exact answer", hits[0].Record.SubmissionContent)
	assert.Equal(t, "close answer", hits[1].Record.SubmissionContent)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestMemoryQuery_breaks_similarity_ties_by_recency(t *testing.T) {
	store := &correctionStoreFake{}
	uc := makeUsecase(store, &embeddingStub{})

	older := models.CorrectionRecord{
		Id:                uuid.New(),
		SubmissionContent: "older",
		ContentHash:       "hash-older",
		Embedding:         []float32{1, 0, 0},
		CreatedAt:         time.Now().Add(-time.Hour),
	}
	newer := models.CorrectionRecord{
		Id:                uuid.New(),
		SubmissionContent: "newer",
		ContentHash:       "hash-newer",
		Embedding:         []float32{1, 0, 0},
		CreatedAt:         time.Now(),
	}
	store.records = []models.CorrectionRecord{older, newer}
	require.NoError(t, uc.Hydrate(context.Background()))

	hits, err := uc.Query(context.Background(), "query", 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "newer", hits[0].Record.SubmissionContent)
	assert.Equal(t, "older", hits[1].Record.SubmissionContent)
}

func TestMemoryPurgeCorrection(t *testing.T) {
	store := &correctionStoreFake{}
	uc := makeUsecase(store, &embeddingStub{})

	record, err := uc.AddCorrection(context.Background(), newCorrectionInput("to be purged", 5))
	require.NoError(t, err)

	require.NoError(t, uc.PurgeCorrection(context.Background(), record.Id))

	assert.Empty(t, store.records)
	hits, err := uc.Query(context.Background(), "to be purged", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryPurgeCorrection_unknown_record(t *testing.T) {
	uc := makeUsecase(&correctionStoreFake{}, &embeddingStub{})

	err := uc.PurgeCorrection(context.Background(), uuid.New())

	assert.ErrorIs(t, err, models.NotFoundError)
}

func TestMemoryHydrate_rebuilds_the_index(t *testing.T) {
	store := &correctionStoreFake{
		records: []models.CorrectionRecord{
			{
				Id:                uuid.New(),
				SubmissionContent: "stored before startup",
				ContentHash:       "hash-1",
				Embedding:         []float32{1, 0, 0},
				CreatedAt:         time.Now(),
			},
		},
	}
	uc := makeUsecase(store, &embeddingStub{})

	require.NoError(t, uc.Hydrate(context.Background()))

	hits, err := uc.Query(context.Background(), "query", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "stored before startup", hits[0].Record.SubmissionContent)
}
