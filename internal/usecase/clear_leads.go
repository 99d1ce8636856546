package usecase

import (
	"context"

	"github.com/xavierca1/lead-engine/internal/entity"
	"go.uber.org/zap"
)

type ClearLeadsOutput struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deleted_count"`
}

type ClearLeadsUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Logger *zap.Logger
}

func NewClearLeadsUseCase(repo entity.LeadRepositoryInterface, logger *zap.Logger) *ClearLeadsUseCase {
	return &ClearLeadsUseCase{Repo: repo, Logger: logger.Named("clear")}
}

func (uc *ClearLeadsUseCase) Execute(ctx context.Context) (*ClearLeadsOutput, error) {
	n, err := uc.Repo.Clear(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to clear leads", Err: err}
	}

	uc.Logger.Info("leads cleared", zap.Int("deleted", n))
	return &ClearLeadsOutput{Success: true, DeletedCount: n}, nil
}
