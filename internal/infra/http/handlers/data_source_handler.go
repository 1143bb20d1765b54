package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-insights/internal/entity"
	"github.com/xavierca1/lead-insights/internal/infra/metrics"
	"github.com/xavierca1/lead-insights/internal/usecase"
)

type DataSourceHandler struct {
	ListUC    *usecase.ListDataSourcesUseCase
	ConnectUC *usecase.ConnectDataSourceUseCase
}

func NewDataSourceHandler(list *usecase.ListDataSourcesUseCase, connect *usecase.ConnectDataSourceUseCase) *DataSourceHandler {
	return &DataSourceHandler{ListUC: list, ConnectUC: connect}
}

// List handles GET /data-sources.
func (h *DataSourceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ListUC.Execute())
}

// Connect handles POST /data-sources/{id}/connect. Unknown ids answer 200
// with the unchanged list.
func (h *DataSourceHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	out := h.ConnectUC.Execute(id)
	if out.Changed {
		if src, ok := entity.FindDataSource(out.DataSources, id); ok {
			metrics.RecordDataSourceConnected(string(src.Type))
		}
	}

	writeJSON(w, http.StatusOK, out)
}
