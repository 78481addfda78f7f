// Package events handles progress event emission for bulk jobs
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Emitter publishes job progress events to the progress topic. Emission is
// best-effort: a publish failure is logged and swallowed so it never fails
// the job itself.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new progress emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitProgress publishes a progress snapshot for a running job
func (e *Emitter) EmitProgress(ctx context.Context, job *models.BulkJob, current *ProgressCurrent) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitProgress")
	defer span.End()

	event := &ProgressEvent{
		SchemaVersion: SchemaVersion,
		TenantID:      job.TenantID,
		JobID:         job.ID,
		OperationType: job.OperationType,
		Status:        StatusRunning,
		Totals:        job.Counters(),
		Current:       current,
		Timestamp:     time.Now().UTC(),
	}

	e.publish(ctx, event)
}

// EmitCompleted publishes the terminal event for a finished job
func (e *Emitter) EmitCompleted(ctx context.Context, job *models.BulkJob, message string) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitCompleted")
	defer span.End()

	status := StatusCompleted
	switch job.Status {
	case models.JobStatusFailed:
		status = StatusFailed
	case models.JobStatusCancelled:
		status = StatusCancelled
	}

	event := &ProgressEvent{
		SchemaVersion: SchemaVersion,
		TenantID:      job.TenantID,
		JobID:         job.ID,
		OperationType: job.OperationType,
		Status:        status,
		Totals:        job.Counters(),
		Message:       message,
		Timestamp:     time.Now().UTC(),
	}

	e.publish(ctx, event)
}

func (e *Emitter) publish(ctx context.Context, event *ProgressEvent) {
	if e.producer == nil {
		return
	}

	headers := map[string]string{
		"tenant_id":      event.TenantID,
		"operation_type": event.OperationType,
	}

	if err := e.producer.PublishJSON(ctx, event.JobID, headers, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"job_id": event.JobID,
			"status": event.Status,
		}).Error("Failed to emit progress event")
	}
}
