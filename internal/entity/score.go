package entity

import (
	"math"
	"sort"
	"strings"
)

const (
	HighScoreThreshold = 80
	LowScoreThreshold  = 60
)

type ScoreBand string

const (
	BandHigh   ScoreBand = "high"
	BandMedium ScoreBand = "medium"
	BandLow    ScoreBand = "low"
)

func ScoreBandOf(score int) ScoreBand {
	switch {
	case score >= HighScoreThreshold:
		return BandHigh
	case score >= LowScoreThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// AverageScore is the rounded mean of all scores, unscored leads counting as 0.
// An empty slice averages to 0.
func AverageScore(leads []Lead) int {
	if len(leads) == 0 {
		return 0
	}
	sum := 0
	for _, l := range leads {
		sum += l.Score()
	}
	return int(math.Round(float64(sum) / float64(len(leads))))
}

func CountAtLeast(leads []Lead, threshold int) int {
	n := 0
	for _, l := range leads {
		if l.Score() >= threshold {
			n++
		}
	}
	return n
}

func CountBelow(leads []Lead, threshold int) int {
	n := 0
	for _, l := range leads {
		if l.Score() < threshold {
			n++
		}
	}
	return n
}

// SortByScoreDescending returns a new slice; ties keep their input order.
func SortByScoreDescending(leads []Lead) []Lead {
	out := make([]Lead, len(leads))
	copy(out, leads)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score() > out[b].Score()
	})
	return out
}

// FilterLeads keeps leads whose name, email or course contains query,
// ignoring case. A blank query keeps everything.
func FilterLeads(leads []Lead, query string) []Lead {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if q == "" ||
			strings.Contains(strings.ToLower(l.Name), q) ||
			strings.Contains(strings.ToLower(l.Email), q) ||
			strings.Contains(strings.ToLower(l.CourseInterestedIn), q) {
			out = append(out, l)
		}
	}
	return out
}
