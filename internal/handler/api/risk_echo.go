package api

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	models "FinRisk/internal/domain/models"
	domrepo "FinRisk/internal/domain/repository"
	"FinRisk/internal/services/risk"
	"FinRisk/internal/usecase"
	xhttp "FinRisk/pkg/http"
	xlogger "FinRisk/pkg/logger"
)

// RiskEchoHandler serves the screening and analysis API.
type RiskEchoHandler struct {
	logger    *xlogger.Logger
	screening *usecase.RiskScreening
	analysis  *usecase.Analysis
	store     domrepo.SnapshotStore
	mutating  []echo.MiddlewareFunc
}

func NewRiskEchoHandler(logger *xlogger.Logger, screening *usecase.RiskScreening, analysis *usecase.Analysis, store domrepo.SnapshotStore) *RiskEchoHandler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &RiskEchoHandler{logger: logger, screening: screening, analysis: analysis, store: store}
}

// WithMutatingMiddleware guards the POST routes, e.g. with the rate limiter.
func (h *RiskEchoHandler) WithMutatingMiddleware(m ...echo.MiddlewareFunc) *RiskEchoHandler {
	h.mutating = append(h.mutating, m...)
	return h
}

func (h *RiskEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/rules", h.Rules)
	g.POST("/risk/evaluate", h.EvaluateSeries, h.mutating...)
	g.POST("/demo", h.SeedDemo, h.mutating...)
	g.GET("/demo/periods", h.DemoPeriods)

	c := g.Group("/companies/:taxId")
	c.GET("/risk", h.CompanyRisk)
	c.GET("/ratios", h.Ratios)
	c.GET("/trends", h.Trends)
	c.GET("/snapshots", h.Snapshots)
	c.POST("/snapshots", h.UploadSnapshots, h.mutating...)
}

// errorResponse maps use-case errors onto the envelope.
func (h *RiskEchoHandler) errorResponse(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrCompanyNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("company %s not found", c.Param("taxId")))
	case errors.Is(err, usecase.ErrNoSnapshots):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("company %s has no financial data", c.Param("taxId")))
	case errors.Is(err, usecase.ErrYearNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no financial data for year %s", c.QueryParam("year")))
	case errors.Is(err, usecase.ErrInvalidSeries), errors.Is(err, usecase.ErrInvalidQuery):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("", err.Error()))
	}
	h.logger.Error(op+" usecase error", xlogger.String("path", c.Path()), xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalError("internal error").WithError(err))
}

func (h *RiskEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Health(ctx); err != nil {
		h.logger.Warn("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("snapshot store unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// RuleSection is one catalog group as listed by /api/rules.
type RuleSection struct {
	Group risk.Group  `json:"group"`
	Title string      `json:"title"`
	Rules []risk.Rule `json:"rules"`
}

func (h *RiskEchoHandler) Rules(c echo.Context) error {
	byGroup := make(map[risk.Group][]risk.Rule, len(risk.Groups))
	for _, r := range h.screening.Rules() {
		byGroup[r.Group] = append(byGroup[r.Group], r)
	}
	out := make([]RuleSection, 0, len(risk.Groups))
	for _, g := range risk.Groups {
		out = append(out, RuleSection{Group: g, Title: g.Title(), Rules: byGroup[g]})
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
	return xhttp.SuccessResponse(c, out)
}

func (h *RiskEchoHandler) EvaluateSeries(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.screening.EvaluateSeries(req.Series, req.Year))
}

func (h *RiskEchoHandler) CompanyRisk(c echo.Context) error {
	req := &models.CompanyRiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.screening.Evaluate(c.Request().Context(), req.TaxID, req.Year)
	if err != nil {
		return h.errorResponse(c, "risk", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Ratios(c echo.Context) error {
	req := &models.CompanyRiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analysis.Ratios(c.Request().Context(), req.TaxID, req.Year)
	if err != nil {
		return h.errorResponse(c, "ratios", err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *RiskEchoHandler) Trends(c echo.Context) error {
	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analysis.Trends(c.Request().Context(), req.TaxID, req.Statement, req.Mode)
	if err != nil {
		return h.errorResponse(c, "trends", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Snapshots(c echo.Context) error {
	req := &models.CompanyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analysis.Snapshots(c.Request().Context(), req.TaxID)
	if err != nil {
		return h.errorResponse(c, "snapshots", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) UploadSnapshots(c echo.Context) error {
	req := &models.SnapshotBatch{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	taxID := c.Param("taxId")
	if req.Company.TaxID != taxID {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_MISMATCH",
			Field:   "company.taxId",
			Message: "company.taxId must match the path tax id",
		}})
	}
	res, err := h.screening.Ingest(c.Request().Context(), usecase.ChannelHTTP, req.Company, req.Snapshots)
	if err != nil {
		return h.errorResponse(c, "upload", err)
	}
	return xhttp.CreatedResponse(c, res)
}

func (h *RiskEchoHandler) SeedDemo(c echo.Context) error {
	var seed uint64
	if err := echo.QueryParamsBinder(c).Uint64("seed", &seed).BindError(); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("seed", "seed must be a non-negative integer"))
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	res, err := h.screening.SeedDemo(c.Request().Context(), seed)
	if err != nil {
		return h.errorResponse(c, "demo", err)
	}
	return xhttp.CreatedResponse(c, res)
}

// DemoPeriods serves the mock quarterly VAT and monthly invoice revenue.
func (h *RiskEchoHandler) DemoPeriods(c echo.Context) error {
	req := &models.DemoPeriodsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.screening.DemoPeriods(req.Year, req.Seed))
}

var _ xhttp.Handler = (*RiskEchoHandler)(nil)
