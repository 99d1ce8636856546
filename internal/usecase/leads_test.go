package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lead-engine/internal/entity"
	"github.com/xavierca1/lead-engine/internal/infra/database"
	"go.uber.org/zap"
)

func TestListLeadsSortsByScoreStable(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ListAll", mock.Anything).Return([]entity.Lead{
		{ID: "a", Score: 10},
		{ID: "b", Score: 55},
		{ID: "c", Score: 100},
		{ID: "d", Score: 55},
	}, nil)

	leads, err := NewListLeadsUseCase(repo).Execute(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"c", "b", "d", "a"}, ids)
}

func TestListLeadsEmptyIsNotNil(t *testing.T) {
	leads, err := NewListLeadsUseCase(database.NewMemoryLeadRepository()).Execute(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
}

func TestGetLeadDetail(t *testing.T) {
	repo := database.NewMemoryLeadRepository()
	lead := sampleLead()
	_, err := repo.InsertMany(context.Background(), []entity.Lead{lead})
	require.NoError(t, err)

	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(wellFormed, nil)

	uc := NewGetLeadDetailUseCase(repo, NewOutreachGenerator(gen, time.Second, zap.NewNop()))

	first, err := uc.Execute(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead, first.Lead)
	assert.False(t, first.AIMessages.Fallback)

	_, err = uc.Execute(context.Background(), lead.ID)
	require.NoError(t, err)
	gen.AssertNumberOfCalls(t, "Generate", 2)
}

func TestGetLeadDetailNotFound(t *testing.T) {
	gen := new(MockTextGenerator)
	uc := NewGetLeadDetailUseCase(database.NewMemoryLeadRepository(), NewOutreachGenerator(gen, time.Second, zap.NewNop()))

	_, err := uc.Execute(context.Background(), "nope")

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, CodeLeadNotFound, de.Code)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetLeadDetailStorageError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "x").Return(nil, errors.New("timeout"))

	uc := NewGetLeadDetailUseCase(repo, NewOutreachGenerator(nil, time.Second, zap.NewNop()))

	_, err := uc.Execute(context.Background(), "x")
	assert.True(t, IsTechnicalError(err))
}

func TestClearLeads(t *testing.T) {
	repo := database.NewMemoryLeadRepository()
	leads := []entity.Lead{sampleLead(), sampleLead(), sampleLead()}
	_, err := repo.InsertMany(context.Background(), leads)
	require.NoError(t, err)

	out, err := NewClearLeadsUseCase(repo, zap.NewNop()).Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 3, out.DeletedCount)

	all, _ := repo.ListAll(context.Background())
	assert.Empty(t, all)
}

func TestClearLeadsStorageError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Clear", mock.Anything).Return(0, errors.New("down"))

	_, err := NewClearLeadsUseCase(repo, zap.NewNop()).Execute(context.Background())
	assert.True(t, IsTechnicalError(err))
}

func TestValidateRawLead(t *testing.T) {
	errs := ValidateRawLead(entity.RawLead{Name: " ", Phone: "1"})

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"name", "source", "service_interest", "location", "timestamp"}, fields)

	assert.Empty(t, ValidateRawLead(sampleLead().Raw()))
}
