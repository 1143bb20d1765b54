package usecase

import "github.com/xavierca1/lead-insights/internal/entity"

type DataSourcesOutput struct {
	DataSources    []entity.DataSource `json:"dataSources"`
	ConnectedCount int                 `json:"connectedCount"`
	CanPreview     bool                `json:"canPreview"`
}

type ConnectDataSourceOutput struct {
	DataSourcesOutput
	Changed bool `json:"changed"`
}

type PreviewLeadsInput struct {
	Query string
}

type PreviewLeadsOutput struct {
	Leads []entity.Lead `json:"leads"`
	Total int           `json:"total"`
}

type ScoredLead struct {
	entity.Lead
	Band entity.ScoreBand `json:"scoreBand"`
}

type ScoreSummaryOutput struct {
	AverageScore   int          `json:"averageScore"`
	HighScoreLeads int          `json:"highScoreLeads"`
	LowScoreLeads  int          `json:"lowScoreLeads"`
	TotalLeads     int          `json:"totalLeads"`
	Leads          []ScoredLead `json:"leads"`
}

type LeadDetailsOutput struct {
	Lead   entity.Lead          `json:"lead"`
	Band   entity.ScoreBand     `json:"scoreBand"`
	Funnel []entity.FunnelStage `json:"funnel"`
}

type SendOutreachInput struct {
	LeadID  string `json:"-" validate:"required"`
	Channel string `json:"channel,omitempty" validate:"omitempty,oneof=email phone whatsapp sms"`
	Subject string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Body    string `json:"body,omitempty" validate:"omitempty,max=5000"`
}

type SendOutreachOutput struct {
	ID        string         `json:"id"`
	LeadID    string         `json:"leadId"`
	Channel   entity.Channel `json:"channel"`
	Recipient string         `json:"recipient"`
	Status    string         `json:"status"`
}

type OutreachHistoryOutput struct {
	LeadID   string            `json:"leadId"`
	Outreach []entity.Outreach `json:"outreach"`
}
