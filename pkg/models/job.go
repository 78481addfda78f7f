package models

import (
	"encoding/json"
	"time"
)

// Bulk job operation types
const (
	JobTypeBulkMatch = "bulk_match"
	JobTypeAutoFill  = "auto_fill"
)

// Bulk job statuses
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// BulkJob tracks a long-running bulk match or auto-fill run. Counters are
// monotonic; partial progress survives a failed batch (no rollback).
type BulkJob struct {
	ID             string          `json:"id" db:"id"`
	TenantID       string          `json:"tenant_id" db:"tenant_id"`
	OperationType  string          `json:"operation_type" db:"operation_type"`
	Status         string          `json:"status" db:"status"`
	TotalItems     int             `json:"total_items" db:"total_items"`
	ProcessedItems int             `json:"processed_items" db:"processed_items"`
	SuccessCount   int             `json:"success_count" db:"success_count"`
	FailedCount    int             `json:"failed_count" db:"failed_count"`
	SkippedCount   int             `json:"skipped_count" db:"skipped_count"`
	MatchedCount   int             `json:"matched_count" db:"matched_count"`
	Errors         json.RawMessage `json:"errors,omitempty" db:"errors"`
	Message        string          `json:"message,omitempty" db:"message"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	StartedAt      *time.Time      `json:"started_at,omitempty" db:"started_at"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty" db:"finished_at"`
}

// Counters returns the job's counter set
func (j *BulkJob) Counters() JobCounters {
	return JobCounters{
		Total:     j.TotalItems,
		Processed: j.ProcessedItems,
		Success:   j.SuccessCount,
		Failed:    j.FailedCount,
		Skipped:   j.SkippedCount,
		Matched:   j.MatchedCount,
	}
}

// JobError records a single failed item within a bulk job
type JobError struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name,omitempty"`
	Error    string `json:"error"`
}

// JobCounters is the monotonic counter set persisted onto a bulk job
type JobCounters struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Success   int `json:"success"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Matched   int `json:"matched"`
}

// CreateBulkJobRequest starts a bulk job over the tenant's contacts
type CreateBulkJobRequest struct {
	// Optional cap on the number of contacts to process; 0 means all eligible.
	Limit int `json:"limit" validate:"omitempty,gte=0"`
}

// JobListResponse is the response for listing bulk jobs
type JobListResponse struct {
	Items      []BulkJob `json:"items"`
	TotalCount int       `json:"total_count"`
}
