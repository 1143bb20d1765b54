package entity

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type StageStatus string

const (
	StatusCompleted StageStatus = "completed"
	StatusCurrent   StageStatus = "current"
	StatusUpcoming  StageStatus = "upcoming"
)

// FunnelStage is one row of a funnel projection. Percentage is 0 or 100.
type FunnelStage struct {
	Stage      string      `json:"stage"`
	Percentage int         `json:"percentage"`
	Status     StageStatus `json:"status"`
}

// ProjectFunnel lays out all six stages relative to current.
func ProjectFunnel(current Stage) ([]FunnelStage, error) {
	i := current.Index()
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, current)
	}

	out := make([]FunnelStage, 0, len(funnelOrder))
	for j, st := range funnelOrder {
		row := FunnelStage{Stage: capitalize(string(st))}
		if j <= i {
			row.Percentage = 100
		}
		switch {
		case j < i:
			row.Status = StatusCompleted
		case j == i:
			row.Status = StatusCurrent
		default:
			row.Status = StatusUpcoming
		}
		out = append(out, row)
	}
	return out, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
