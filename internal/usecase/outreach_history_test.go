package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-insights/internal/entity"
)

func TestOutreachHistory(t *testing.T) {
	repo := new(MockOutreachRepository)
	repo.On("ListByLead", mock.Anything, "2").Return([]entity.Outreach{
		{ID: "o-2", LeadID: "2", Channel: entity.ChannelPhone, Status: entity.OutreachSent},
		{ID: "o-1", LeadID: "2", Channel: entity.ChannelEmail, Status: entity.OutreachFailed},
	}, nil)

	out, err := NewOutreachHistoryUseCase(newTestStore(t), repo).Execute(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "2", out.LeadID)
	require.Len(t, out.Outreach, 2)
	assert.Equal(t, "o-2", out.Outreach[0].ID)
}

func TestOutreachHistoryEmptyIsNotNil(t *testing.T) {
	repo := new(MockOutreachRepository)
	repo.On("ListByLead", mock.Anything, "1").Return(nil, nil)

	out, err := NewOutreachHistoryUseCase(newTestStore(t), repo).Execute(context.Background(), "1")
	require.NoError(t, err)
	assert.NotNil(t, out.Outreach)
	assert.Empty(t, out.Outreach)
}

func TestOutreachHistoryErrors(t *testing.T) {
	store := newTestStore(t)

	_, err := NewOutreachHistoryUseCase(store, nil).Execute(context.Background(), "1")
	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeOutreachUnavailable, te.Code)

	repo := new(MockOutreachRepository)
	_, err = NewOutreachHistoryUseCase(store, repo).Execute(context.Background(), "404")
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeLeadNotFound, de.Code)
	repo.AssertNotCalled(t, "ListByLead", mock.Anything, mock.Anything)

	repo.On("ListByLead", mock.Anything, "3").Return(nil, errors.New("connection reset"))
	_, err = NewOutreachHistoryUseCase(store, repo).Execute(context.Background(), "3")
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodePersistFailed, te.Code)
	assert.ErrorContains(t, err, "connection reset")
}
