package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/lead-engine/internal/entity"
)

type LeadDetailOutput struct {
	entity.Lead
	AIMessages OutreachMessages `json:"ai_messages"`
}

type GetLeadDetailUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Generator *OutreachGenerator
}

func NewGetLeadDetailUseCase(repo entity.LeadRepositoryInterface, generator *OutreachGenerator) *GetLeadDetailUseCase {
	return &GetLeadDetailUseCase{Repo: repo, Generator: generator}
}

// Execute generates fresh outreach text on every call; nothing is cached or
// written back to the stored lead.
func (uc *GetLeadDetailUseCase) Execute(ctx context.Context, id string) (*LeadDetailOutput, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "Lead not found"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load lead", Err: err}
	}

	return &LeadDetailOutput{
		Lead:       *lead,
		AIMessages: uc.Generator.Generate(ctx, *lead),
	}, nil
}
