package usecase

import (
	"context"
	"sort"

	"github.com/xavierca1/lead-engine/internal/entity"
)

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute returns leads by score, highest first. Equal scores keep upload order.
func (uc *ListLeadsUseCase) Execute(ctx context.Context) ([]entity.Lead, error) {
	leads, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to list leads", Err: err}
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].Score > leads[j].Score
	})

	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}
