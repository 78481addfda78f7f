package events

import (
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Progress statuses mirror bulk job statuses
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// ProgressCurrent describes the item the batch is currently processing
type ProgressCurrent struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Step           string `json:"step,omitempty"`
	FieldsFilled   int    `json:"fields_filled,omitempty"`
	CompanyMatched string `json:"company_matched,omitempty"`
}

// ProgressEvent is emitted after every processed item and coalesced once
// per chunk for the job tracker. Totals are monotonic.
type ProgressEvent struct {
	SchemaVersion string             `json:"schema_version"`
	TenantID      string             `json:"tenant_id"`
	JobID         string             `json:"job_id"`
	OperationType string             `json:"operation_type"`
	Status        string             `json:"status"`
	Totals        models.JobCounters `json:"totals"`
	Current       *ProgressCurrent   `json:"current,omitempty"`
	Message       string             `json:"message,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}
