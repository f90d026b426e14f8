package memory

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/repositories"
	"github.com/campuskit/grader-backend/usecases/executor_factory"
	"github.com/campuskit/grader-backend/utils"
)

type correctionRepository interface {
	CreateCorrectionRecord(ctx context.Context, exec repositories.Executor, record models.CorrectionRecord) error
	GetCorrectionRecordByContentHash(ctx context.Context, exec repositories.Executor,
		contentHash string) (*models.CorrectionRecord, error)
	GetCorrectionRecordById(ctx context.Context, exec repositories.Executor,
		recordId uuid.UUID) (models.CorrectionRecord, error)
	ListCorrectionRecords(ctx context.Context, exec repositories.Executor) ([]models.CorrectionRecord, error)
	DeleteCorrectionRecord(ctx context.Context, exec repositories.Executor, recordId uuid.UUID) error
}

type embeddingClient interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type indexEntry struct {
	record models.CorrectionRecord
	vector []float32
}

// MemoryUsecase is the institutional memory of human-verified corrections.
// Postgres is the source of truth; a flat in-memory index of normalized
// embedding vectors serves similarity queries by exact cosine scan. The index
// is hydrated once at startup and kept in sync on every write.
type MemoryUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         correctionRepository
	embeddingClient    embeddingClient

	mu      sync.RWMutex
	entries []indexEntry
}

func NewMemoryUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository correctionRepository,
	embeddingClient embeddingClient,
) *MemoryUsecase {
	return &MemoryUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
		embeddingClient:    embeddingClient,
	}
}

// Hydrate rebuilds the similarity index from the database, in insertion order.
func (uc *MemoryUsecase) Hydrate(ctx context.Context) error {
	records, err := uc.repository.ListCorrectionRecords(ctx, uc.executorFactory.NewExecutor())
	if err != nil {
		return errors.Wrap(err, "could not list correction records")
	}

	entries := make([]indexEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, indexEntry{
			record: record,
			vector: normalize(record.Embedding),
		})
	}

	uc.mu.Lock()
	uc.entries = entries
	uc.mu.Unlock()

	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Hydrated correction memory index", "records", len(entries))
	return nil
}

// AddCorrection persists a human-verified correction and makes it immediately
// retrievable. Writes are idempotent on the content hash: replaying the same
// correction returns the stored record without inserting a duplicate.
func (uc *MemoryUsecase) AddCorrection(ctx context.Context,
	input models.NewCorrectionRecord,
) (models.CorrectionRecord, error) {
	contentHash := models.CorrectionContentHash(input.SubmissionContent, input.CorrectedScore, input.CorrectedFeedback)

	existing, err := uc.repository.GetCorrectionRecordByContentHash(ctx, uc.executorFactory.NewExecutor(), contentHash)
	if err != nil {
		return models.CorrectionRecord{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	// A correction without a vector can never be retrieved, so an embedding
	// failure fails the write rather than storing a blind record.
	embedding, err := uc.embeddingClient.EmbedText(ctx, input.SubmissionContent)
	if err != nil {
		return models.CorrectionRecord{}, err
	}

	record := models.CorrectionRecord{
		Id:                uuid.New(),
		ConsensusResultId: input.ConsensusResultId,
		RubricId:          input.RubricId,
		SubmissionContent: input.SubmissionContent,
		CorrectedScore:    input.CorrectedScore,
		CorrectedFeedback: input.CorrectedFeedback,
		ContentHash:       contentHash,
		Embedding:         embedding,
		CreatedAt:         time.Now(),
	}

	err = uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		return uc.repository.CreateCorrectionRecord(ctx, tx, record)
	})
	if err != nil {
		// Two concurrent writes of the same correction race past the hash
		// lookup; the unique index wins and the stored record is returned.
		if repositories.IsUniqueViolationError(err) {
			stored, lookupErr := uc.repository.GetCorrectionRecordByContentHash(ctx,
				uc.executorFactory.NewExecutor(), contentHash)
			if lookupErr == nil && stored != nil {
				return *stored, nil
			}
		}
		return models.CorrectionRecord{}, err
	}

	uc.mu.Lock()
	uc.entries = append(uc.entries, indexEntry{record: record, vector: normalize(embedding)})
	uc.mu.Unlock()

	return record, nil
}

// Query returns the k stored corrections most similar to the given submission
// content, most similar first. Ties are broken by recency. An empty memory
// returns an empty result, not an error.
func (uc *MemoryUsecase) Query(ctx context.Context, content string, k int) ([]models.RetrievedCorrection, error) {
	if k <= 0 {
		return nil, errors.Wrap(models.BadParameterError, "query size must be positive")
	}

	uc.mu.RLock()
	empty := len(uc.entries) == 0
	uc.mu.RUnlock()
	if empty {
		return []models.RetrievedCorrection{}, nil
	}

	queryVector, err := uc.embeddingClient.EmbedText(ctx, content)
	if err != nil {
		return nil, err
	}
	queryVector = normalize(queryVector)

	uc.mu.RLock()
	hits := make([]models.RetrievedCorrection, 0, len(uc.entries))
	for _, entry := range uc.entries {
		hits = append(hits, models.RetrievedCorrection{
			Record:     entry.record,
			Similarity: dot(queryVector, entry.vector),
		})
	}
	uc.mu.RUnlock()

	slices.SortStableFunc(hits, func(a, b models.RetrievedCorrection) int {
		if a.Similarity != b.Similarity {
			if a.Similarity > b.Similarity {
				return -1
			}
			return 1
		}
		return b.Record.CreatedAt.Compare(a.Record.CreatedAt)
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// PurgeCorrection removes a correction from both the database and the index.
// This is the only deletion path of the otherwise append-only store.
func (uc *MemoryUsecase) PurgeCorrection(ctx context.Context, recordId uuid.UUID) error {
	if _, err := uc.repository.GetCorrectionRecordById(ctx, uc.executorFactory.NewExecutor(), recordId); err != nil {
		return err
	}

	err := uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		return uc.repository.DeleteCorrectionRecord(ctx, tx, recordId)
	})
	if err != nil {
		return err
	}

	uc.mu.Lock()
	uc.entries = slices.DeleteFunc(uc.entries, func(entry indexEntry) bool {
		return entry.record.Id == recordId
	})
	uc.mu.Unlock()

	return nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := range n {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
