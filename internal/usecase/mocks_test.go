package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/lead-engine/internal/entity"
	"github.com/xavierca1/lead-engine/internal/infra/queue"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) InsertMany(ctx context.Context, leads []entity.Lead) ([]string, error) {
	args := m.Called(ctx, leads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Clear(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishHotLead(ctx context.Context, payload queue.HotLeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func sampleLead() entity.Lead {
	return *entity.NewLead(entity.RawLead{
		Name:            "John Doe",
		Phone:           "+91-9876543210",
		Email:           "john@email.com",
		Source:          "Google Ads",
		ServiceInterest: "SEO",
		Location:        "Hyderabad",
		Timestamp:       "2024-12-15T10:30:00",
	}, entity.DefaultScoringRules())
}
