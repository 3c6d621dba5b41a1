package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinRisk/internal/domain/models"
	"FinRisk/internal/repository"
	"FinRisk/internal/service/ratelimit"
	"FinRisk/internal/services/mockdata"
	"FinRisk/internal/services/risk"
	"FinRisk/internal/usecase"
	"FinRisk/pkg/cache"
	"FinRisk/pkg/metrics"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, mutating ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	return newTestServerWith(t, usecase.ScreeningConfig{CacheTTL: time.Minute, MaxUploadYears: 6}, mutating...)
}

func newTestServerWith(t *testing.T, cfg usecase.ScreeningConfig, mutating ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	store := repository.NewMemorySnapshotStore()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })

	screening := usecase.NewRiskScreening(risk.NewEngine(), store, c, repository.NoopReportPublisher{}, nil,
		metrics.New(prometheus.NewRegistry()), nil, cfg)
	h := NewRiskEchoHandler(nil, screening, usecase.NewAnalysis(store), store).WithMutatingMiddleware(mutating...)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target string, body interface{}) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, strings.NewReader(string(b)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code, env.Status)
	return rec.Code, env
}

func upload(t *testing.T, e *echo.Echo) models.CompanyInfo {
	t.Helper()
	company := mockdata.DemoCompany()
	batch := models.SnapshotBatch{Company: company, Snapshots: mockdata.Generate(mockdata.Options{Years: 3, Seed: 9})}
	code, _ := do(t, e, http.MethodPost, "/api/companies/"+company.TaxID+"/snapshots", batch)
	require.Equal(t, http.StatusCreated, code)
	return company
}

func TestRulesGroupedByCatalogSection(t *testing.T) {
	e := newTestServer(t)
	code, env := do(t, e, http.MethodGet, "/api/rules", nil)
	require.Equal(t, http.StatusOK, code)

	var sections []RuleSection
	require.NoError(t, json.Unmarshal(env.Data, &sections))
	require.Len(t, sections, 4)
	assert.Equal(t, risk.BalanceSheet, sections[0].Group)
	assert.Len(t, sections[0].Rules, 15)
	assert.Len(t, sections[3].Rules, 10)
}

func TestEvaluateSeriesEndpoint(t *testing.T) {
	e := newTestServer(t)
	series := mockdata.Generate(mockdata.Options{Years: 2, Seed: 3})

	code, env := do(t, e, http.MethodPost, "/api/risk/evaluate", models.EvaluateRequest{Series: series, Year: 2023})
	require.Equal(t, http.StatusOK, code)
	var sc usecase.Screening
	require.NoError(t, json.Unmarshal(env.Data, &sc))
	assert.Equal(t, 2023, sc.Report.Year)
	assert.False(t, sc.Report.HasPrevious)

	code, env = do(t, e, http.MethodPost, "/api/risk/evaluate", map[string]interface{}{"series": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Data), "series")
}

func TestCompanyEndpoints(t *testing.T) {
	e := newTestServer(t)
	company := upload(t, e)
	base := "/api/companies/" + company.TaxID

	code, env := do(t, e, http.MethodGet, base+"/risk", nil)
	require.Equal(t, http.StatusOK, code)
	var sc usecase.Screening
	require.NoError(t, json.Unmarshal(env.Data, &sc))
	assert.Equal(t, 2024, sc.Report.Year)
	assert.Equal(t, company.Name, sc.Company.Name)

	code, env = do(t, e, http.MethodGet, base+"/ratios?year=2023", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total":1`)

	code, _ = do(t, e, http.MethodGet, base+"/ratios?year=2001", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, e, http.MethodGet, base+"/trends?statement=balance&mode=vertical", nil)
	require.Equal(t, http.StatusOK, code)
	var table models.TrendTable
	require.NoError(t, json.Unmarshal(env.Data, &table))
	assert.Equal(t, "balance", table.Statement)
	assert.Equal(t, []int{2024, 2023, 2022}, table.Years)

	code, _ = do(t, e, http.MethodGet, base+"/trends?statement=tax", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, e, http.MethodGet, base+"/snapshots", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), company.Name)
}

func TestUnknownCompanyIs404(t *testing.T) {
	e := newTestServer(t)
	code, env := do(t, e, http.MethodGet, "/api/companies/0000000000/risk", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(env.Data), "ERR_NOT_FOUND")
}

func TestUploadRejectsMismatchAndTooManyYears(t *testing.T) {
	e := newTestServer(t)
	company := mockdata.DemoCompany()

	batch := models.SnapshotBatch{Company: company, Snapshots: mockdata.Generate(mockdata.Options{Years: 2})}
	code, env := do(t, e, http.MethodPost, "/api/companies/0309876543/snapshots", batch)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Data), "ERR_MISMATCH")

	batch.Snapshots = mockdata.Generate(mockdata.Options{Years: 7})
	code, env = do(t, e, http.MethodPost, "/api/companies/"+company.TaxID+"/snapshots", batch)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Data), "at most 6")
}

func TestUploadLimitFollowsConfig(t *testing.T) {
	e := newTestServerWith(t, usecase.ScreeningConfig{CacheTTL: time.Minute, MaxUploadYears: 10})
	company := mockdata.DemoCompany()
	batch := models.SnapshotBatch{Company: company, Snapshots: mockdata.Generate(mockdata.Options{Years: 8})}

	code, env := do(t, e, http.MethodPost, "/api/companies/"+company.TaxID+"/snapshots", batch)
	require.Equal(t, http.StatusCreated, code, string(env.Data))
	var sc usecase.Screening
	require.NoError(t, json.Unmarshal(env.Data, &sc))
	assert.Len(t, sc.Years, 8)
}

func TestMalformedTaxIDIs400(t *testing.T) {
	e := newTestServer(t)
	for _, id := range []string{"0101%5B99988", "010199988%2A", "ABCDEFGHIJ"} {
		for _, route := range []string{"/risk", "/ratios", "/trends", "/snapshots"} {
			code, env := do(t, e, http.MethodGet, "/api/companies/"+id+route, nil)
			assert.Equal(t, http.StatusBadRequest, code, id+route)
			assert.Contains(t, string(env.Data), "ERR_TAXID", id+route)
		}
	}

	company := mockdata.DemoCompany()
	company.TaxID = "0101*99988"
	batch := models.SnapshotBatch{Company: company, Snapshots: mockdata.Generate(mockdata.Options{Years: 2})}
	code, env := do(t, e, http.MethodPost, "/api/companies/0101%2A99988/snapshots", batch)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Data), "10-digit tax code")
}

func TestDemoPeriodsEndpoint(t *testing.T) {
	e := newTestServer(t)

	code, env := do(t, e, http.MethodGet, "/api/demo/periods?year=2023&seed=5", nil)
	require.Equal(t, http.StatusOK, code)
	var p usecase.DemoPeriods
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, mockdata.DemoCompany().TaxID, p.TaxID)
	assert.Equal(t, 2023, p.Year)
	require.Len(t, p.Quarterly, 4)
	assert.Equal(t, "Q1/2023", p.Quarterly[0].Period)
	assert.Equal(t, mockdata.Monthly(5), p.Monthly)

	code, env = do(t, e, http.MethodGet, "/api/demo/periods", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, mockdata.DefaultAnchor, p.Year)

	code, _ = do(t, e, http.MethodGet, "/api/demo/periods?year=1800", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSeedDemoEndpoint(t *testing.T) {
	e := newTestServer(t)
	code, env := do(t, e, http.MethodPost, "/api/demo?seed=42", nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Contains(t, string(env.Data), mockdata.DemoCompany().TaxID)

	code, _ = do(t, e, http.MethodPost, "/api/demo?seed=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)
	code, _ := do(t, e, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestMutatingRoutesAreRateLimited(t *testing.T) {
	e := newTestServer(t, ratelimit.Middleware(ratelimit.New(0.001, 1)))

	code, _ := do(t, e, http.MethodPost, "/api/demo?seed=1", nil)
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, e, http.MethodPost, "/api/demo?seed=2", nil)
	assert.Equal(t, http.StatusTooManyRequests, code)

	code, _ = do(t, e, http.MethodGet, "/api/rules", nil)
	assert.Equal(t, http.StatusOK, code, "reads are not limited")
}
