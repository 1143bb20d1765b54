package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/lead-insights/internal/entity"
)

type OutreachHistoryUseCase struct {
	Store CatalogStore
	Repo  entity.OutreachRepositoryInterface
}

func NewOutreachHistoryUseCase(store CatalogStore, repo entity.OutreachRepositoryInterface) *OutreachHistoryUseCase {
	return &OutreachHistoryUseCase{Store: store, Repo: repo}
}

// Execute lists the outreach recorded for a lead, newest first.
func (uc *OutreachHistoryUseCase) Execute(ctx context.Context, leadID string) (*OutreachHistoryOutput, error) {
	if uc.Repo == nil {
		return nil, &TechnicalError{
			Code:    CodeOutreachUnavailable,
			Message: "outreach history is not configured",
		}
	}

	if _, ok := entity.FindLead(uc.Store.Leads(), leadID); !ok {
		return nil, &DomainError{
			Code:    CodeLeadNotFound,
			Message: fmt.Sprintf("lead %s not found", leadID),
		}
	}

	items, err := uc.Repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, &TechnicalError{Code: CodePersistFailed, Message: "could not load outreach history", Err: err}
	}
	if items == nil {
		items = []entity.Outreach{}
	}
	return &OutreachHistoryOutput{LeadID: leadID, Outreach: items}, nil
}
