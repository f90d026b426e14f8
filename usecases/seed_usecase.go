package usecases

import (
	"context"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/repositories"
	"github.com/campuskit/grader-backend/usecases/executor_factory"
)

type personaConfigRepository interface {
	CreatePersonaConfig(ctx context.Context, exec repositories.Executor, config models.PersonaConfig) error
}

type SeedUseCase struct {
	transactionFactory executor_factory.TransactionFactory
	repository         personaConfigRepository
}

// SeedDefaultPersonas inserts the built-in persona configurations, skipping
// any key an operator has already customized.
func (usecase *SeedUseCase) SeedDefaultPersonas(ctx context.Context) error {
	return usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		for _, persona := range models.DefaultPersonaConfigs() {
			if err := usecase.repository.CreatePersonaConfig(ctx, tx, persona); err != nil {
				return err
			}
		}
		return nil
	})
}
