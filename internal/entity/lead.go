package entity

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

type Stage string

const (
	StageAwareness     Stage = "awareness"
	StageInterest      Stage = "interest"
	StageConsideration Stage = "consideration"
	StageIntent        Stage = "intent"
	StageEvaluation    Stage = "evaluation"
	StagePurchase      Stage = "purchase"
)

// funnelOrder is the canonical stage order. Funnel projection compares indexes in it.
var funnelOrder = []Stage{
	StageAwareness,
	StageInterest,
	StageConsideration,
	StageIntent,
	StageEvaluation,
	StagePurchase,
}

var ErrInvalidStage = errors.New("invalid funnel stage")

// Stages returns a copy of the canonical funnel order.
func Stages() []Stage {
	out := make([]Stage, len(funnelOrder))
	copy(out, funnelOrder)
	return out
}

// Index returns the position of s in the funnel, or -1 when s is not a stage.
func (s Stage) Index() int {
	for i, st := range funnelOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) Valid() bool {
	return s.Index() >= 0
}

func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, raw)
	}
	return s, nil
}

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelPhone    Channel = "phone"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelPhone, ChannelWhatsApp, ChannelSMS:
		return true
	}
	return false
}

const DateLayout = "2006-01-02"

// Lead is one prospective customer. The pointer and empty fields stay unset
// until the lead has been scored.
type Lead struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Phone              string `json:"phone" yaml:"phone"`
	Email              string `json:"email" yaml:"email"`
	DateOfInteraction  string `json:"dateOfInteraction" yaml:"dateOfInteraction"`
	StageInFunnel      Stage  `json:"stageInFunnel" yaml:"stageInFunnel"`
	CourseInterestedIn string `json:"courseInterestedIn" yaml:"courseInterestedIn"`

	ConversionScore         *int     `json:"conversionScore,omitempty" yaml:"conversionScore,omitempty"`
	ConversionPercentage    *int     `json:"conversionPercentage,omitempty" yaml:"conversionPercentage,omitempty"`
	PreferredChannel        Channel  `json:"preferredChannel,omitempty" yaml:"preferredChannel,omitempty"`
	DraftContent            string   `json:"draftContent,omitempty" yaml:"draftContent,omitempty"`
	DynamicPrice            *float64 `json:"dynamicPrice,omitempty" yaml:"dynamicPrice,omitempty"`
	RecommendedLearningPath []string `json:"recommendedLearningPath,omitempty" yaml:"recommendedLearningPath,omitempty"`
}

// Score returns the conversion score, or 0 for an unscored lead.
func (l Lead) Score() int {
	if l.ConversionScore == nil {
		return 0
	}
	return *l.ConversionScore
}

func (l Lead) Scored() bool {
	return l.ConversionScore != nil
}

func (l Lead) HasDraft() bool {
	return l.DraftContent != ""
}

func (l Lead) Validate() error {
	if l.ID == "" {
		return errors.New("id is required")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Phone == "" {
		return errors.New("phone is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if _, err := time.Parse(DateLayout, l.DateOfInteraction); err != nil {
		return fmt.Errorf("dateOfInteraction must be YYYY-MM-DD: %q", l.DateOfInteraction)
	}
	if !l.StageInFunnel.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, l.StageInFunnel)
	}
	if err := validPercent("conversionScore", l.ConversionScore); err != nil {
		return err
	}
	if err := validPercent("conversionPercentage", l.ConversionPercentage); err != nil {
		return err
	}
	if l.PreferredChannel != "" && !l.PreferredChannel.Valid() {
		return fmt.Errorf("preferredChannel %q is not supported", l.PreferredChannel)
	}
	if l.DynamicPrice != nil && *l.DynamicPrice <= 0 {
		return errors.New("dynamicPrice must be positive")
	}
	return nil
}

func validPercent(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %d", field, *v)
	}
	return nil
}

// Clone returns a copy that shares no pointers or slices with l.
func (l Lead) Clone() Lead {
	out := l
	if l.ConversionScore != nil {
		v := *l.ConversionScore
		out.ConversionScore = &v
	}
	if l.ConversionPercentage != nil {
		v := *l.ConversionPercentage
		out.ConversionPercentage = &v
	}
	if l.DynamicPrice != nil {
		v := *l.DynamicPrice
		out.DynamicPrice = &v
	}
	out.RecommendedLearningPath = slices.Clone(l.RecommendedLearningPath)
	return out
}

func CloneLeads(leads []Lead) []Lead {
	if leads == nil {
		return nil
	}
	out := make([]Lead, len(leads))
	for i, l := range leads {
		out[i] = l.Clone()
	}
	return out
}

// FindLead returns the first lead whose id matches exactly.
func FindLead(leads []Lead, id string) (Lead, bool) {
	for _, l := range leads {
		if l.ID == id {
			return l, true
		}
	}
	return Lead{}, false
}
