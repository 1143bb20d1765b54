package usecase

import (
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/entity"
)

type ListDataSourcesUseCase struct {
	Store CatalogStore
}

func NewListDataSourcesUseCase(store CatalogStore) *ListDataSourcesUseCase {
	return &ListDataSourcesUseCase{Store: store}
}

func (uc *ListDataSourcesUseCase) Execute() DataSourcesOutput {
	return dataSourcesOutput(uc.Store.DataSources())
}

type ConnectDataSourceUseCase struct {
	Store CatalogStore
	Log   logrus.FieldLogger
}

func NewConnectDataSourceUseCase(store CatalogStore, log logrus.FieldLogger) *ConnectDataSourceUseCase {
	return &ConnectDataSourceUseCase{Store: store, Log: log}
}

// Execute connects the source with the given id. An unknown id is not an
// error: the current snapshot comes back with Changed false.
func (uc *ConnectDataSourceUseCase) Execute(id string) ConnectDataSourceOutput {
	sources, changed := uc.Store.Connect(id)

	if changed {
		src, _ := entity.FindDataSource(sources, id)
		uc.Log.WithFields(logrus.Fields{"data_source_id": id, "name": src.Name, "type": src.Type}).
			Info("data source connected")
	} else {
		uc.Log.WithField("data_source_id", id).Debug("connect was a no-op")
	}

	return ConnectDataSourceOutput{
		DataSourcesOutput: dataSourcesOutput(sources),
		Changed:           changed,
	}
}

func dataSourcesOutput(sources []entity.DataSource) DataSourcesOutput {
	return DataSourcesOutput{
		DataSources:    sources,
		ConnectedCount: entity.CountConnected(sources),
		CanPreview:     entity.CanPreview(sources),
	}
}
