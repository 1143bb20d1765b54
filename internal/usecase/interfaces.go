package usecase

import (
	"context"

	"github.com/xavierca1/lead-insights/internal/entity"
)

type CatalogStore interface {
	Leads() []entity.Lead
	DataSources() []entity.DataSource
	Connect(id string) ([]entity.DataSource, bool)
}

type QueueProducerInterface interface {
	PublishOutreach(ctx context.Context, payload entity.OutreachPayload) error
}
