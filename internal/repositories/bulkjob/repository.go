// Package bulkjob persists bulk job records and their progress counters
package bulkjob

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/internal/database"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/models"
)

var jobColumns = []string{
	"id", "tenant_id", "operation_type", "status",
	"total_items", "processed_items", "success_count", "failed_count",
	"skipped_count", "matched_count", "errors", "message",
	"created_at", "updated_at", "started_at", "finished_at",
}

// Repository handles bulk job persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new bulk job repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a pending bulk job
func (r *Repository) Create(ctx context.Context, tenantID, operationType string) (*models.BulkJob, error) {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	job := &models.BulkJob{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		OperationType: operationType,
		Status:        models.JobStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("bulk_jobs")
	sb.Cols("id", "tenant_id", "operation_type", "status", "created_at", "updated_at")
	sb.Values(job.ID, job.TenantID, job.OperationType, job.Status, job.CreatedAt, job.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create bulk job")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create bulk job")
	}

	return job, nil
}

// Get retrieves a bulk job by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.BulkJob, error) {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(jobColumns...)
	sb.From("bulk_jobs")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var job models.BulkJob
	if err := r.db.GetContext(ctx, &job, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("bulk job %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get bulk job")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get bulk job")
	}

	return &job, nil
}

// List retrieves recent bulk jobs for a tenant
func (r *Repository) List(ctx context.Context, tenantID string, limit int) (*models.JobListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.List")
	defer span.End()

	if limit < 1 || limit > 200 {
		limit = 50
	}

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("bulk_jobs")
	countSb.Where(countSb.Equal("tenant_id", tenantID))

	query, args := countSb.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count bulk jobs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list bulk jobs")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(jobColumns...)
	sb.From("bulk_jobs")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args = sb.Build()
	var jobs []models.BulkJob
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list bulk jobs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list bulk jobs")
	}

	return &models.JobListResponse{
		Items:      jobs,
		TotalCount: total,
	}, nil
}

// Start marks a pending job running and records its total item count
func (r *Repository) Start(ctx context.Context, tenantID, id string, totalItems int) error {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.Start")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("bulk_jobs")
	sb.Set(
		sb.Assign("status", models.JobStatusRunning),
		sb.Assign("total_items", totalItems),
		sb.Assign("started_at", now),
		sb.Assign("updated_at", now),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.Equal("status", models.JobStatusPending),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to start bulk job")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start bulk job")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf("bulk job %s is not pending", id))
	}

	return nil
}

// UpdateProgress persists the job's counters. Counters are monotonic so a
// plain overwrite is safe.
func (r *Repository) UpdateProgress(ctx context.Context, tenantID, id string, counters models.JobCounters) error {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.UpdateProgress")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("bulk_jobs")
	sb.Set(
		sb.Assign("processed_items", counters.Processed),
		sb.Assign("success_count", counters.Success),
		sb.Assign("failed_count", counters.Failed),
		sb.Assign("skipped_count", counters.Skipped),
		sb.Assign("matched_count", counters.Matched),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update job progress")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update job progress")
	}

	return nil
}

// AppendErrors appends item errors to the job's error list
func (r *Repository) AppendErrors(ctx context.Context, tenantID, id string, errs []models.JobError) error {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.AppendErrors")
	defer span.End()

	if len(errs) == 0 {
		return nil
	}

	data, err := json.Marshal(errs)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to encode job errors")
	}

	query := `
		UPDATE bulk_jobs
		SET errors = COALESCE(errors, '[]'::jsonb) || $1::jsonb, updated_at = $2
		WHERE id = $3 AND tenant_id = $4
	`

	if _, err := r.db.ExecContext(ctx, query, data, time.Now().UTC(), id, tenantID); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to append job errors")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to append job errors")
	}

	return nil
}

// Finalize sets the job's terminal status and finish time
func (r *Repository) Finalize(ctx context.Context, tenantID, id, status, message string) error {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.Finalize")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("bulk_jobs")
	sb.Set(
		sb.Assign("status", status),
		sb.Assign("message", message),
		sb.Assign("finished_at", now),
		sb.Assign("updated_at", now),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to finalize bulk job")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to finalize bulk job")
	}

	return nil
}

// Cancel requests cancellation of a pending or running job. The processor
// honors the flag between chunks.
func (r *Repository) Cancel(ctx context.Context, tenantID, id string) error {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.Cancel")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("bulk_jobs")
	sb.Set(
		sb.Assign("status", models.JobStatusCancelled),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.In("status", models.JobStatusPending, models.JobStatusRunning),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to cancel bulk job")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to cancel bulk job")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf("bulk job %s is not running", id))
	}

	return nil
}

// IsCancelled reports whether cancellation has been requested for the job
func (r *Repository) IsCancelled(ctx context.Context, tenantID, id string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "bulkjob.Repository.IsCancelled")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("status")
	sb.From("bulk_jobs")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var status string
	if err := r.db.GetContext(ctx, &status, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to read job status")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read job status")
	}

	return status == models.JobStatusCancelled, nil
}
