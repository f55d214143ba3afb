package domain

import "time"

// SyncOutcomeStatus classifies what happened to a single organization during
// one synchronization pass.
type SyncOutcomeStatus string

const (
	// SyncStatusSynced means the rate was written for the organization.
	SyncStatusSynced SyncOutcomeStatus = "SYNCED"
	// SyncStatusSkipped means an existing manually curated rate took
	// precedence and the write was rejected by policy.
	SyncStatusSkipped SyncOutcomeStatus = "SKIPPED"
	// SyncStatusFailed means the write failed for infrastructure reasons.
	SyncStatusFailed SyncOutcomeStatus = "FAILED"
)

// SyncOutcome is the per-organization result of one pass. Failures are
// isolated: one organization's outcome never affects another's.
type SyncOutcome struct {
	OrganizationID   string            `json:"organizationID"`
	OrganizationName string            `json:"organizationName,omitempty"`
	Status           SyncOutcomeStatus `json:"status"`
	Error            string            `json:"error,omitempty"`
}

// SyncRun is the ephemeral report of one synchronization pass. It is never
// persisted; it exists only to be returned to the caller that triggered the
// pass.
type SyncRun struct {
	StartedAt          time.Time     `json:"startedAt"`
	FinishedAt         time.Time     `json:"finishedAt"`
	Duration           time.Duration `json:"duration"`
	Quote              *RateQuote    `json:"quote,omitempty"`
	StaleQuoteUsed     bool          `json:"staleQuoteUsed"`
	Outcomes           []SyncOutcome `json:"outcomes"`
	SyncedCount        int           `json:"syncedCount"`
	SkippedCount       int           `json:"skippedCount"`
	FailedCount        int           `json:"failedCount"`
	TotalOrganizations int           `json:"totalOrganizations"`
}

// Record appends an outcome and keeps the aggregate counters consistent.
func (r *SyncRun) Record(outcome SyncOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
	switch outcome.Status {
	case SyncStatusSynced:
		r.SyncedCount++
	case SyncStatusSkipped:
		r.SkippedCount++
	case SyncStatusFailed:
		r.FailedCount++
	}
}

// SyncStatus is the externally visible state of the scheduler.
type SyncStatus struct {
	Armed          bool       `json:"armed"`
	Running        bool       `json:"running"`
	SyncHour       int        `json:"syncHour"`
	SyncMinute     int        `json:"syncMinute"`
	NextRunAt      *time.Time `json:"nextRunAt,omitempty"`
	QuoteCachedAt  *time.Time `json:"quoteCachedAt,omitempty"`
	QuoteCacheAge  *float64   `json:"quoteCacheAgeSeconds,omitempty"`
	LastRunStarted *time.Time `json:"lastRunStartedAt,omitempty"`
	LastRunSynced  *int       `json:"lastRunSyncedCount,omitempty"`
}
