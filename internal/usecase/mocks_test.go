package usecase

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-insights/internal/catalog"
	"github.com/xavierca1/lead-insights/internal/entity"
)

// MockOutreachRepository
type MockOutreachRepository struct {
	mock.Mock
}

func (m *MockOutreachRepository) Create(ctx context.Context, o *entity.Outreach) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOutreachRepository) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

func (m *MockOutreachRepository) ListByLead(ctx context.Context, leadID string) ([]entity.Outreach, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Outreach), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishOutreach(ctx context.Context, payload entity.OutreachPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func newTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return catalog.NewStore(c)
}

func nullLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}
