package dto

import (
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
)

// SyncOutcomeResponse is the per-organization slice of a sync run report.
type SyncOutcomeResponse struct {
	OrganizationID   string `json:"organizationID"`
	OrganizationName string `json:"organizationName,omitempty"`
	Status           string `json:"status"`
	Error            string `json:"error,omitempty"`
}

// SyncRunResponse is the report returned by the trigger-now operation.
type SyncRunResponse struct {
	StartedAt          time.Time             `json:"startedAt"`
	DurationSeconds    float64               `json:"durationSeconds"`
	Rate               string                `json:"rate,omitempty"`
	Source             string                `json:"source,omitempty"`
	StaleQuoteUsed     bool                  `json:"staleQuoteUsed"`
	SyncedCount        int                   `json:"syncedCount"`
	SkippedCount       int                   `json:"skippedCount"`
	FailedCount        int                   `json:"failedCount"`
	TotalOrganizations int                   `json:"totalOrganizations"`
	Outcomes           []SyncOutcomeResponse `json:"outcomes"`
}

// ToSyncRunResponse converts a domain.SyncRun to SyncRunResponse DTO
func ToSyncRunResponse(run *domain.SyncRun) SyncRunResponse {
	resp := SyncRunResponse{
		StartedAt:          run.StartedAt,
		DurationSeconds:    run.Duration.Seconds(),
		StaleQuoteUsed:     run.StaleQuoteUsed,
		SyncedCount:        run.SyncedCount,
		SkippedCount:       run.SkippedCount,
		FailedCount:        run.FailedCount,
		TotalOrganizations: run.TotalOrganizations,
		Outcomes:           make([]SyncOutcomeResponse, len(run.Outcomes)),
	}
	if run.Quote != nil {
		resp.Rate = run.Quote.Mid.String()
		resp.Source = run.Quote.Source
	}
	for i, o := range run.Outcomes {
		resp.Outcomes[i] = SyncOutcomeResponse{
			OrganizationID:   o.OrganizationID,
			OrganizationName: o.OrganizationName,
			Status:           string(o.Status),
			Error:            o.Error,
		}
	}
	return resp
}
