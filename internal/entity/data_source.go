package entity

import (
	"errors"
	"fmt"
)

type SourceType string

const (
	SourceCRM       SourceType = "crm"
	SourceAnalytics SourceType = "analytics"
	SourceSocial    SourceType = "social"
)

func (t SourceType) Valid() bool {
	switch t {
	case SourceCRM, SourceAnalytics, SourceSocial:
		return true
	}
	return false
}

// DataSource is an external system that can supply lead data.
// Connected only ever moves from false to true.
type DataSource struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Type        SourceType `json:"type" yaml:"type"`
	Icon        string     `json:"icon" yaml:"icon"`
	Description string     `json:"description" yaml:"description"`
	Connected   bool       `json:"connected" yaml:"connected"`
}

func (d DataSource) Validate() error {
	if d.ID == "" {
		return errors.New("id is required")
	}
	if d.Name == "" {
		return errors.New("name is required")
	}
	if !d.Type.Valid() {
		return fmt.Errorf("type %q is not supported", d.Type)
	}
	return nil
}

// ConnectDataSource returns a copy of sources with the entry matching id
// marked connected. An unknown id yields an unchanged copy.
func ConnectDataSource(sources []DataSource, id string) []DataSource {
	out := make([]DataSource, len(sources))
	copy(out, sources)
	for i := range out {
		if out[i].ID == id {
			out[i].Connected = true
		}
	}
	return out
}

func FindDataSource(sources []DataSource, id string) (DataSource, bool) {
	for _, s := range sources {
		if s.ID == id {
			return s, true
		}
	}
	return DataSource{}, false
}

func CountConnected(sources []DataSource) int {
	n := 0
	for _, s := range sources {
		if s.Connected {
			n++
		}
	}
	return n
}

// CanPreview reports whether at least one source is connected.
func CanPreview(sources []DataSource) bool {
	return CountConnected(sources) > 0
}
