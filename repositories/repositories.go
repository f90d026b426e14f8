package repositories

import (
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"

	"github.com/campuskit/grader-backend/infra"
)

type Repositories struct {
	ExecutorGetter      ExecutorGetter
	GraderDbRepository  *GraderDbRepository
	EmbeddingRepository EmbeddingRepository
	SandboxRepository   SandboxRepository
	LmsRepository       LmsRepository
	TaskQueueRepository TaskQueueRepository
}

type Option func(*options)

type options struct {
	riverClient *river.Client[pgx.Tx]
	httpClient  *http.Client
}

func WithRiverClient(client *river.Client[pgx.Tx]) Option {
	return func(o *options) {
		o.riverClient = client
	}
}

func WithHttpClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

func NewRepositories(
	pool *pgxpool.Pool,
	embeddingConfig infra.EmbeddingConfiguration,
	sandboxConfig infra.SandboxConfiguration,
	lmsConfig infra.LmsConfiguration,
	opts ...Option,
) Repositories {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	repositories := Repositories{
		ExecutorGetter:      NewExecutorGetter(pool),
		GraderDbRepository:  &GraderDbRepository{},
		EmbeddingRepository: NewEmbeddingRepository(embeddingConfig, o.httpClient),
		SandboxRepository:   NewSandboxRepository(sandboxConfig, o.httpClient),
		LmsRepository:       NewLmsRepository(lmsConfig, o.httpClient),
	}
	if o.riverClient != nil {
		repositories.TaskQueueRepository = NewTaskQueueRepository(o.riverClient)
	}
	return repositories
}
