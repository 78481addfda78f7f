// Package processor runs bulk match and auto-fill jobs over the contact
// store. Items are processed sequentially in fixed-size chunks; counters
// are persisted and progress events flushed once per chunk so a long job
// stays observable without holding a transaction open.
package processor

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/resolver"
)

// ContactStore is the contact repository surface the processor needs
type ContactStore interface {
	ListForBulkMatch(ctx context.Context, tenantID string, limit int) ([]*models.Contact, error)
	ListForAutoFill(ctx context.Context, tenantID string, limit int) ([]*models.Contact, error)
	ApplyFieldDeltas(ctx context.Context, tenantID, id string, deltas map[string]any) error
	MarkMatchStatus(ctx context.Context, tenantID, id, status string) error
}

// JobStore is the bulk job repository surface the processor needs
type JobStore interface {
	Create(ctx context.Context, tenantID, operationType string) (*models.BulkJob, error)
	Start(ctx context.Context, tenantID, id string, totalItems int) error
	UpdateProgress(ctx context.Context, tenantID, id string, counters models.JobCounters) error
	AppendErrors(ctx context.Context, tenantID, id string, errs []models.JobError) error
	Finalize(ctx context.Context, tenantID, id, status, message string) error
	IsCancelled(ctx context.Context, tenantID, id string) (bool, error)
}

// ProgressSink receives job progress updates
type ProgressSink interface {
	EmitProgress(ctx context.Context, job *models.BulkJob, current *events.ProgressCurrent)
	EmitCompleted(ctx context.Context, job *models.BulkJob, message string)
}

// Processor executes bulk jobs
type Processor struct {
	logger    ectologger.Logger
	contacts  ContactStore
	jobs      JobStore
	resolver  *resolver.Resolver
	emitter   ProgressSink
	chunkSize int
}

// NewProcessor creates a new bulk job processor
func NewProcessor(
	logger ectologger.Logger,
	contacts ContactStore,
	jobs JobStore,
	res *resolver.Resolver,
	emitter ProgressSink,
	chunkSize int,
) *Processor {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	return &Processor{
		logger:    logger,
		contacts:  contacts,
		jobs:      jobs,
		resolver:  res,
		emitter:   emitter,
		chunkSize: chunkSize,
	}
}

// HandleCommand creates and runs a job from a Kafka job command
func (p *Processor) HandleCommand(ctx context.Context, cmd *kafka.JobCommand) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleCommand")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": cmd.TenantID,
		"job_type":  cmd.JobType,
	})

	if cmd.TenantID == "" {
		log.Error("Missing tenant_id in job command")
		return nil // malformed, skip without retry
	}
	if cmd.JobType != models.JobTypeBulkMatch && cmd.JobType != models.JobTypeAutoFill {
		log.Error("Unknown job type in job command")
		return nil
	}

	job, err := p.jobs.Create(ctx, cmd.TenantID, cmd.JobType)
	if err != nil {
		log.WithError(err).Error("Failed to create bulk job")
		return err
	}

	return p.Run(ctx, job, cmd.Limit)
}

// Run executes a pending job to completion. Item-level failures are
// recorded and the job continues; only batch-level failures (the initial
// listing, cancellation-flag reads) fail the job.
func (p *Processor) Run(ctx context.Context, job *models.BulkJob, limit int) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.Run")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"job_id":         job.ID,
		"tenant_id":      job.TenantID,
		"operation_type": job.OperationType,
	})

	metrics.RecordJobStarted()

	contacts, err := p.listTargets(ctx, job, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list contacts for job")
		p.failJob(ctx, job, err.Error())
		return err
	}

	job.TotalItems = len(contacts)
	job.Status = models.JobStatusRunning
	if err := p.jobs.Start(ctx, job.TenantID, job.ID, len(contacts)); err != nil {
		log.WithError(err).Error("Failed to start job")
		p.failJob(ctx, job, err.Error())
		return err
	}

	log.WithFields(map[string]any{"total_items": len(contacts)}).Info("Bulk job started")

	cache := resolver.NewCache()
	counters := models.JobCounters{Total: len(contacts)}
	var jobErrors []models.JobError

	for start := 0; start < len(contacts); start += p.chunkSize {
		cancelled, err := p.jobs.IsCancelled(ctx, job.TenantID, job.ID)
		if err != nil {
			log.WithError(err).Error("Failed to check cancellation flag")
			p.appendErrors(ctx, job, jobErrors, log)
			p.failJob(ctx, job, err.Error())
			return err
		}
		if cancelled {
			log.Info("Job cancelled, stopping between chunks")
			p.appendErrors(ctx, job, jobErrors, log)
			p.finishJob(ctx, job, counters, models.JobStatusCancelled, "cancelled by operator")
			return nil
		}

		end := start + p.chunkSize
		if end > len(contacts) {
			end = len(contacts)
		}

		for _, c := range contacts[start:end] {
			current, itemErr := p.processItem(ctx, job, c, cache, &counters)
			counters.Processed++
			if itemErr != nil {
				counters.Failed++
				metrics.RecordJobItem(job.OperationType, "failed")
				jobErrors = append(jobErrors, models.JobError{
					ItemID:   c.ID,
					ItemName: itemName(c),
					Error:    itemErr.Error(),
				})
				log.WithError(itemErr).WithFields(map[string]any{
					"contact_id": c.ID,
				}).Warn("Failed to process contact")
			} else {
				metrics.RecordJobItem(job.OperationType, "processed")
			}

			applyCounters(job, counters)
			p.emitter.EmitProgress(ctx, job, current)
		}

		// Coalesced persist once per chunk
		if err := p.jobs.UpdateProgress(ctx, job.TenantID, job.ID, counters); err != nil {
			log.WithError(err).Error("Failed to persist job progress")
		}
	}

	p.appendErrors(ctx, job, jobErrors, log)
	message := fmt.Sprintf("%d processed, %d matched, %d failed, %d skipped",
		counters.Processed, counters.Matched, counters.Failed, counters.Skipped)
	p.finishJob(ctx, job, counters, models.JobStatusCompleted, message)

	log.WithFields(map[string]any{
		"processed": counters.Processed,
		"matched":   counters.Matched,
		"failed":    counters.Failed,
		"skipped":   counters.Skipped,
	}).Info("Bulk job completed")

	return nil
}

func (p *Processor) listTargets(ctx context.Context, job *models.BulkJob, limit int) ([]*models.Contact, error) {
	switch job.OperationType {
	case models.JobTypeBulkMatch:
		return p.contacts.ListForBulkMatch(ctx, job.TenantID, limit)
	case models.JobTypeAutoFill:
		return p.contacts.ListForAutoFill(ctx, job.TenantID, limit)
	default:
		return nil, fmt.Errorf("unknown operation type %q", job.OperationType)
	}
}

func (p *Processor) processItem(
	ctx context.Context,
	job *models.BulkJob,
	c *models.Contact,
	cache *resolver.Cache,
	counters *models.JobCounters,
) (*events.ProgressCurrent, error) {
	switch job.OperationType {
	case models.JobTypeBulkMatch:
		return p.matchItem(ctx, job, c, cache, counters)
	default:
		return p.autoFillItem(ctx, job, c, cache, counters)
	}
}

func (p *Processor) matchItem(
	ctx context.Context,
	job *models.BulkJob,
	c *models.Contact,
	cache *resolver.Cache,
	counters *models.JobCounters,
) (*events.ProgressCurrent, error) {
	current := &events.ProgressCurrent{ID: c.ID, Name: itemName(c), Step: "match"}

	outcome, err := p.resolver.MatchContact(ctx, job.TenantID, c, cache)
	if err != nil {
		return current, err
	}

	if outcome.Status == models.MatchStatusSkipped {
		counters.Skipped++
		return current, nil
	}

	if len(outcome.Deltas) > 0 {
		if err := p.contacts.ApplyFieldDeltas(ctx, job.TenantID, c.ID, outcome.Deltas); err != nil {
			return current, err
		}
	}
	if err := p.contacts.MarkMatchStatus(ctx, job.TenantID, c.ID, outcome.Status); err != nil {
		return current, err
	}

	counters.Success++
	if outcome.Status == models.MatchStatusMatched {
		counters.Matched++
		current.CompanyMatched = outcome.Result.Template.Company
		current.FieldsFilled = len(outcome.Deltas)
	}
	return current, nil
}

func (p *Processor) autoFillItem(
	ctx context.Context,
	job *models.BulkJob,
	c *models.Contact,
	cache *resolver.Cache,
	counters *models.JobCounters,
) (*events.ProgressCurrent, error) {
	current := &events.ProgressCurrent{ID: c.ID, Name: itemName(c), Step: "auto_fill"}

	deltas, result, err := p.resolver.AutoFillContact(ctx, job.TenantID, c, cache)
	if err != nil {
		return current, err
	}

	if result == nil {
		counters.Skipped++
		return current, nil
	}

	if len(deltas) > 0 {
		if err := p.contacts.ApplyFieldDeltas(ctx, job.TenantID, c.ID, deltas); err != nil {
			return current, err
		}
	}

	counters.Success++
	counters.Matched++
	current.FieldsFilled = len(deltas)
	current.CompanyMatched = result.Template.Company
	return current, nil
}

func (p *Processor) appendErrors(ctx context.Context, job *models.BulkJob, errs []models.JobError, log ectologger.Logger) {
	if len(errs) == 0 {
		return
	}
	if err := p.jobs.AppendErrors(ctx, job.TenantID, job.ID, errs); err != nil {
		log.WithError(err).Error("Failed to persist job errors")
	}
}

func (p *Processor) finishJob(ctx context.Context, job *models.BulkJob, counters models.JobCounters, status, message string) {
	applyCounters(job, counters)
	job.Status = status
	job.Message = message

	if err := p.jobs.UpdateProgress(ctx, job.TenantID, job.ID, counters); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to persist final counters")
	}
	if err := p.jobs.Finalize(ctx, job.TenantID, job.ID, status, message); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to finalize job")
	}
	metrics.RecordJobFinished(job.TenantID, job.OperationType, status)
	p.emitter.EmitCompleted(ctx, job, message)
}

func (p *Processor) failJob(ctx context.Context, job *models.BulkJob, message string) {
	job.Status = models.JobStatusFailed
	job.Message = message

	if err := p.jobs.Finalize(ctx, job.TenantID, job.ID, models.JobStatusFailed, message); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to mark job failed")
	}
	metrics.RecordJobFinished(job.TenantID, job.OperationType, models.JobStatusFailed)
	p.emitter.EmitCompleted(ctx, job, message)
}

func applyCounters(job *models.BulkJob, c models.JobCounters) {
	job.TotalItems = c.Total
	job.ProcessedItems = c.Processed
	job.SuccessCount = c.Success
	job.FailedCount = c.Failed
	job.SkippedCount = c.Skipped
	job.MatchedCount = c.Matched
}

func itemName(c *models.Contact) string {
	if c.Company != "" {
		return c.Company
	}
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}
	return name
}
