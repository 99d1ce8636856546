package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-engine/internal/infra/queue"
)

type MockAlertSender struct {
	mock.Mock
}

func (m *MockAlertSender) SendHotLeadAlert(ctx context.Context, payload queue.HotLeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func TestAlertFanoutTriesEverySender(t *testing.T) {
	payload := queue.HotLeadPayload{LeadID: "1", Name: "John"}

	failing := new(MockAlertSender)
	failing.On("SendHotLeadAlert", mock.Anything, payload).Return(errors.New("smtp down"))
	ok := new(MockAlertSender)
	ok.On("SendHotLeadAlert", mock.Anything, payload).Return(nil)

	fanout := alertFanout{
		meteredAlerts{service: "smtp", next: failing},
		meteredAlerts{service: "kommo", next: ok},
	}

	err := fanout.SendHotLeadAlert(context.Background(), payload)
	assert.ErrorContains(t, err, "smtp down")
	failing.AssertExpectations(t)
	ok.AssertExpectations(t)
}

func TestMeteredPublisherPassesThrough(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishHotLead", mock.Anything, mock.Anything).Return(nil).Once()

	assert.NoError(t, meteredPublisher{next: pub}.PublishHotLead(context.Background(), queue.HotLeadPayload{}))
	pub.AssertExpectations(t)
}
