package usecases

import (
	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/repositories"
	"github.com/campuskit/grader-backend/usecases/executor_factory"
	"github.com/campuskit/grader-backend/usecases/grading"
	"github.com/campuskit/grader-backend/usecases/memory"
	"github.com/campuskit/grader-backend/usecases/sandboxexec"
)

type Usecases struct {
	Repositories  repositories.Repositories
	graderConfig  infra.GraderConfiguration
	sandboxConfig infra.SandboxConfiguration

	consensusPolicy grading.ConsensusPolicy
	llmProvider     *grading.LlmClientProvider
	memoryUsecase   *memory.MemoryUsecase
}

type Option func(*options)

type options struct {
	consensusPolicy *grading.ConsensusPolicy
}

func WithConsensusPolicy(policy grading.ConsensusPolicy) Option {
	return func(o *options) {
		o.consensusPolicy = &policy
	}
}

func NewUsecases(
	repos repositories.Repositories,
	graderConfig infra.GraderConfiguration,
	sandboxConfig infra.SandboxConfiguration,
	opts ...Option,
) *Usecases {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	policy := grading.DefaultConsensusPolicy()
	if o.consensusPolicy != nil {
		policy = *o.consensusPolicy
	}

	usecases := &Usecases{
		Repositories:    repos,
		graderConfig:    graderConfig,
		sandboxConfig:   sandboxConfig,
		consensusPolicy: policy,
		llmProvider:     grading.NewLlmClientProvider(graderConfig),
	}
	usecases.memoryUsecase = memory.NewMemoryUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		repos.GraderDbRepository,
		repos.EmbeddingRepository,
	)
	return usecases
}

func (usecases *Usecases) NewExecutorFactory() executor_factory.ExecutorFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) NewTransactionFactory() executor_factory.TransactionFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		executorFactory:    usecases.NewExecutorFactory(),
		livenessRepository: usecases.Repositories.GraderDbRepository,
	}
}

func (usecases *Usecases) NewSeedUseCase() SeedUseCase {
	return SeedUseCase{
		transactionFactory: usecases.NewTransactionFactory(),
		repository:         usecases.Repositories.GraderDbRepository,
	}
}

// MemoryUsecase is shared: it owns the in-memory similarity index, so every
// caller must see the same instance.
func (usecases *Usecases) MemoryUsecase() *memory.MemoryUsecase {
	return usecases.memoryUsecase
}

func (usecases *Usecases) NewSandboxUsecase() sandboxexec.SandboxUsecase {
	return sandboxexec.NewSandboxUsecase(usecases.Repositories.SandboxRepository, usecases.sandboxConfig)
}

func (usecases *Usecases) NewEvaluator() grading.Evaluator {
	return grading.NewEvaluator(usecases.llmProvider, usecases.graderConfig)
}

func (usecases *Usecases) NewConsensusUsecase() grading.ConsensusUsecase {
	return grading.NewConsensusUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.GraderDbRepository,
		usecases.MemoryUsecase(),
		usecases.NewSandboxUsecase(),
		usecases.NewEvaluator(),
		usecases.Repositories.TaskQueueRepository,
		usecases.consensusPolicy,
	)
}
