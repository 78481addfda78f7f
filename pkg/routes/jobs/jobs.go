// Package jobs exposes bulk job management
package jobs

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/reqcontext"
	bulkjobrepo "github.com/Ramsey-B/clover/internal/repositories/bulkjob"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/processor"
)

var validate = validator.New()

// Register registers bulk job routes
func Register(g *echo.Group) {
	g.POST("/bulk-match", StartBulkMatch)
	g.POST("/auto-fill", StartAutoFill)
	g.GET("", List)
	g.GET("/:id", Get)
	g.POST("/:id/cancel", Cancel)
}

// StartBulkMatch starts a bulk match-to-company job
func StartBulkMatch(c echo.Context) error {
	return startJob(c, models.JobTypeBulkMatch)
}

// StartAutoFill starts a bulk auto-fill job
func StartAutoFill(c echo.Context) error {
	return startJob(c, models.JobTypeAutoFill)
}

func startJob(c echo.Context, operationType string) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "jobs_handler.startJob")
	defer span.End()

	tenantID := reqcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	// The body is optional; an empty request means "all eligible contacts"
	var req models.CreateBulkJobRequest
	if err := c.Bind(&req); err != nil {
		req = models.CreateBulkJobRequest{}
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*bulkjobrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}
	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "processor not available")
	}

	job, err := repo.Create(ctx, tenantID, operationType)
	if err != nil {
		return err
	}

	// Run detached from the request; progress is observable via GET /:id
	// and the progress topic.
	go func() {
		runCtx := reqcontext.SetTenantID(context.Background(), tenantID)
		if runErr := proc.Run(runCtx, job, req.Limit); runErr != nil {
			ctx, logger, err := ectoinject.GetContext[ectologger.Logger](runCtx)
			if err == nil {
				logger.WithContext(ctx).WithError(runErr).WithFields(map[string]any{
					"job_id": job.ID,
				}).Error("Bulk job failed")
			}
		}
	}()

	return c.JSON(http.StatusAccepted, job)
}

// List returns recent bulk jobs for the tenant
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "jobs_handler.List")
	defer span.End()

	tenantID := reqcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, repo, err := ectoinject.GetContext[*bulkjobrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	resp, err := repo.List(ctx, tenantID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// Get returns a bulk job with its progress counters
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "jobs_handler.Get")
	defer span.End()

	tenantID := reqcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*bulkjobrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	job, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, job)
}

// Cancel requests cancellation of a pending or running job
func Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "jobs_handler.Cancel")
	defer span.End()

	tenantID := reqcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*bulkjobrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	if err := repo.Cancel(ctx, tenantID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}
