package catalog

import (
	"slices"
	"sync"

	"github.com/xavierca1/lead-insights/internal/entity"
)

// Store owns the process-wide catalog instance. Every accessor returns a
// copy, so callers cannot change leads or disconnect a source.
type Store struct {
	mu      sync.RWMutex
	leads   []entity.Lead
	sources []entity.DataSource
}

func NewStore(c Catalog) *Store {
	return &Store{
		leads:   entity.CloneLeads(c.Leads),
		sources: slices.Clone(c.DataSources),
	}
}

func (s *Store) Leads() []entity.Lead {
	return entity.CloneLeads(s.leads)
}

func (s *Store) DataSources() []entity.DataSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sources)
}

// Connect marks the source connected and returns the new snapshot. changed
// is false when id is unknown or the source was already connected.
func (s *Store) Connect(id string) (sources []entity.DataSource, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, found := entity.FindDataSource(s.sources, id)
	if !found || before.Connected {
		return slices.Clone(s.sources), false
	}
	s.sources = entity.ConnectDataSource(s.sources, id)
	return slices.Clone(s.sources), true
}
