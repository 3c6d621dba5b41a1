package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return SuccessResponse(c, "pong") })
	e.GET("/gone", func(c echo.Context) error { return AppErrorResponse(c, NotFoundErrorf("company %s not found", "x")) })
	e.GET("/oops", func(c echo.Context) error { return AppErrorResponse(c, errors.New("raw")) })
}

func TestServerRoutesAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewServer(Handlers{pingHandler{}}, WithMetrics("/metrics", reg, reg))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var env APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "pong", env.Data)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `finrisk_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}

func TestAppErrorResponseStatus(t *testing.T) {
	s := NewServer(pingHandler{}, WithMetrics("", prometheus.NewRegistry(), nil))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR_NOT_FOUND"`)
	assert.Contains(t, rec.Body.String(), "company x not found")

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oops", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "raw")
}

func TestAppErrorHelpers(t *testing.T) {
	cause := errors.New("redis down")
	err := ServiceUnavailableError("cache unavailable").WithError(cause)
	assert.Equal(t, "cache unavailable: redis down", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "slow down", TooManyRequestsError("slow down").Error())

	for status, e := range map[int]*AppError{
		http.StatusNotFound:            NotFoundErrorf("company %s", "x"),
		http.StatusBadRequest:          BadRequestError("year", "bad year"),
		http.StatusTooManyRequests:     TooManyRequestsError("slow down"),
		http.StatusServiceUnavailable:  ServiceUnavailableError("down"),
		http.StatusInternalServerError: InternalError("boom"),
	} {
		assert.Equal(t, status, e.Status, e.Code)
	}
	assert.Equal(t, "year", BadRequestError("year", "bad year").Field)
}

type uploadReq struct {
	TaxID string `json:"taxId" validate:"required,min=10"`
	Mode  string `json:"mode" default:"horizontal" validate:"oneof=horizontal vertical"`
	Items []struct {
		Year int `json:"year" validate:"gte=1900"`
	} `json:"items" validate:"max=2,dive"`
}

func bindCtx(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestReadAndValidateRequest(t *testing.T) {
	req := &uploadReq{}
	errs := ReadAndValidateRequest(bindCtx(`{"taxId":"0101999888"}`), req)
	assert.Nil(t, errs)
	assert.Equal(t, "horizontal", req.Mode, "defaults fill unset fields")

	errs = ReadAndValidateRequest(bindCtx(`{"taxId":"123","items":[{"year":1800}]}`), &uploadReq{})
	require.Len(t, errs, 2)
	assert.Equal(t, "taxId", errs[0].Field)
	assert.Equal(t, "ERR_MIN", errs[0].Code)
	assert.Equal(t, "items[0].year", errs[1].Field)
	assert.Equal(t, "ERR_GTE", errs[1].Code)

	errs = ReadAndValidateRequest(bindCtx(`{not json`), &uploadReq{})
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_BIND", errs[0].Code)
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(context.Background(), &uploadReq{TaxID: "0101999888", Mode: "diagonal"})
	require.Len(t, errs, 1)
	assert.Equal(t, "mode", errs[0].Field)
	assert.Equal(t, "mode must be one of: horizontal, vertical", errs[0].Message)
}

type branchReq struct {
	Branch string `json:"branch" validate:"required,branchcode"`
}

func TestRegisterValidationUsesCustomMessage(t *testing.T) {
	require.NoError(t, RegisterValidation("branchcode", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) == 3
	}, "%s must be three characters"))

	assert.Nil(t, ValidateStruct(context.Background(), &branchReq{Branch: "001"}))

	errs := ValidateStruct(context.Background(), &branchReq{Branch: "0001"})
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_BRANCHCODE", errs[0].Code)
	assert.Equal(t, "branch must be three characters", errs[0].Message)

	assert.Error(t, RegisterValidation("", nil, ""))
}
