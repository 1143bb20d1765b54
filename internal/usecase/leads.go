package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/lead-insights/internal/entity"
)

type PreviewLeadsUseCase struct {
	Store CatalogStore
}

func NewPreviewLeadsUseCase(store CatalogStore) *PreviewLeadsUseCase {
	return &PreviewLeadsUseCase{Store: store}
}

// Execute lists leads in catalog order. Preview needs at least one
// connected data source.
func (uc *PreviewLeadsUseCase) Execute(input PreviewLeadsInput) (*PreviewLeadsOutput, error) {
	if !entity.CanPreview(uc.Store.DataSources()) {
		return nil, &DomainError{
			Code:    CodeNoConnectedSource,
			Message: "connect at least one data source to preview leads",
		}
	}

	leads := entity.FilterLeads(uc.Store.Leads(), input.Query)
	return &PreviewLeadsOutput{Leads: leads, Total: len(leads)}, nil
}

type ScoreSummaryUseCase struct {
	Store CatalogStore
}

func NewScoreSummaryUseCase(store CatalogStore) *ScoreSummaryUseCase {
	return &ScoreSummaryUseCase{Store: store}
}

func (uc *ScoreSummaryUseCase) Execute() ScoreSummaryOutput {
	leads := uc.Store.Leads()

	sorted := entity.SortByScoreDescending(leads)
	scored := make([]ScoredLead, 0, len(sorted))
	for _, l := range sorted {
		scored = append(scored, ScoredLead{Lead: l, Band: entity.ScoreBandOf(l.Score())})
	}

	return ScoreSummaryOutput{
		AverageScore:   entity.AverageScore(leads),
		HighScoreLeads: entity.CountAtLeast(leads, entity.HighScoreThreshold),
		LowScoreLeads:  entity.CountBelow(leads, entity.LowScoreThreshold),
		TotalLeads:     len(leads),
		Leads:          scored,
	}
}

type GetLeadDetailsUseCase struct {
	Store CatalogStore
}

func NewGetLeadDetailsUseCase(store CatalogStore) *GetLeadDetailsUseCase {
	return &GetLeadDetailsUseCase{Store: store}
}

// Execute returns found=false for an unknown id. The error is only set when
// a stored lead carries a stage outside the funnel.
func (uc *GetLeadDetailsUseCase) Execute(id string) (out LeadDetailsOutput, found bool, err error) {
	lead, ok := entity.FindLead(uc.Store.Leads(), id)
	if !ok {
		return LeadDetailsOutput{}, false, nil
	}

	funnel, err := entity.ProjectFunnel(lead.StageInFunnel)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidStage) {
			return LeadDetailsOutput{}, true, &DomainError{
				Code:    CodeInvalidStage,
				Message: fmt.Sprintf("lead %s has an unknown funnel stage %q", lead.ID, lead.StageInFunnel),
			}
		}
		return LeadDetailsOutput{}, true, err
	}

	return LeadDetailsOutput{
		Lead:   lead,
		Band:   entity.ScoreBandOf(lead.Score()),
		Funnel: funnel,
	}, true, nil
}
