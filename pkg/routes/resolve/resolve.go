// Package resolve exposes single-company resolution
package resolve

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/reqcontext"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/resolver"
)

var validate = validator.New()

// Register registers resolution routes
func Register(g *echo.Group) {
	g.POST("/resolve", ResolveCompany)
}

// ResolveCompany resolves a set of identifiers to a merged company template
func ResolveCompany(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "resolve_handler.ResolveCompany")
	defer span.End()

	tenantID := reqcontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req models.ResolveRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, res, err := ectoinject.GetContext[*resolver.Resolver](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "resolver not available")
	}

	start := time.Now()
	result, err := res.Resolve(ctx, tenantID, req)
	if err != nil {
		return err
	}

	if result == nil {
		metrics.RecordResolution(tenantID, "not_found", time.Since(start).Seconds(), 0)
		return c.JSON(http.StatusOK, models.ResolveResponse{Found: false})
	}

	metrics.RecordResolution(tenantID, "found", time.Since(start).Seconds(), result.Candidates)
	return c.JSON(http.StatusOK, models.ResolveResponse{
		Found:      true,
		Template:   result.Template,
		MatchType:  result.MatchType,
		Confidence: result.Confidence,
		Candidates: result.Candidates,
	})
}
