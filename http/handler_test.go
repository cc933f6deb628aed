package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/settlersdb"
	settlershttp "github.com/sagarc03/settlersdb/http"
)

// MockService is a mock implementation of http.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) LookupUser(ctx context.Context, name string) (string, bool, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockService) RetrieveRobotParams(ctx context.Context, name string) (settlersdb.RobotParams, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(settlersdb.RobotParams), args.Bool(1), args.Error(2)
}

func (m *MockService) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockService) SchemaInfo(ctx context.Context) (settlersdb.SchemaInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(settlersdb.SchemaInfo), args.Error(1)
}

func newRouter(service *MockService) http.Handler {
	return newConfiguredRouter(&settlershttp.HandlerConfig{}, service)
}

func newConfiguredRouter(config *settlershttp.HandlerConfig, service *MockService) http.Handler {
	return settlershttp.NewHandler(config, service).Router()
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	service := new(MockService)

	rec := serve(t, newRouter(service), "GET", "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	service.AssertExpectations(t)
}

func TestHandler_Schema(t *testing.T) {
	service := new(MockService)
	service.On("SchemaInfo", mock.Anything).Return(settlersdb.SchemaInfo{
		Dialect: "sqlite",
		Version: 1200,
		Latest:  true,
		Tables:  map[string]bool{"users": true, "robotparams": false},
	}, nil)

	rec := serve(t, newRouter(service), "GET", "/schema")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var info settlersdb.SchemaInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "sqlite", info.Dialect)
	assert.Equal(t, 1200, info.Version)
	assert.True(t, info.Latest)
	assert.False(t, info.Tables["robotparams"])
	service.AssertExpectations(t)
}

func TestHandler_Schema_NotConnected(t *testing.T) {
	service := new(MockService)
	service.On("SchemaInfo", mock.Anything).
		Return(settlersdb.SchemaInfo{}, fmt.Errorf("schema info: %w", settlersdb.ErrNotConnected))

	rec := serve(t, newRouter(service), "GET", "/schema")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestHandler_CountUsers(t *testing.T) {
	service := new(MockService)
	service.On("CountUsers", mock.Anything).Return(42, nil)

	rec := serve(t, newRouter(service), "GET", "/users/count")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":42}`, rec.Body.String())
	service.AssertExpectations(t)
}

func TestHandler_CountUsers_Unavailable(t *testing.T) {
	service := new(MockService)
	service.On("CountUsers", mock.Anything).Return(-1, nil)

	rec := serve(t, newRouter(service), "GET", "/users/count")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestHandler_CountUsers_QueryFailure(t *testing.T) {
	service := new(MockService)
	service.On("CountUsers", mock.Anything).
		Return(-1, fmt.Errorf("count users: %w", settlersdb.ErrQuery))

	rec := serve(t, newRouter(service), "GET", "/users/count")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestHandler_LookupUser(t *testing.T) {
	service := new(MockService)
	service.On("LookupUser", mock.Anything, "jtest").Return("JTest", true, nil)

	rec := serve(t, newRouter(service), "GET", "/users/jtest")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"nickname":"JTest"}`, rec.Body.String())
	service.AssertExpectations(t)
}

func TestHandler_LookupUser_NotFound(t *testing.T) {
	service := new(MockService)
	service.On("LookupUser", mock.Anything, "nobody").Return("", false, nil)

	rec := serve(t, newRouter(service), "GET", "/users/nobody")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestHandler_LookupUser_Invalid(t *testing.T) {
	service := new(MockService)
	service.On("LookupUser", mock.Anything, "waytoolongforanickname").
		Return("", false, fmt.Errorf("nickname too long: %w", settlersdb.ErrValidation))

	rec := serve(t, newRouter(service), "GET", "/users/waytoolongforanickname")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_input")
}

func TestHandler_RobotParams(t *testing.T) {
	service := new(MockService)
	service.On("RetrieveRobotParams", mock.Anything, "robot 1").Return(settlersdb.RobotParams{
		MaxGameLength:  300,
		MaxETA:         99,
		ETABonusFactor: 1.5,
		StrategyType:   1,
	}, true, nil)

	rec := serve(t, newRouter(service), "GET", "/robots/robot%201")

	assert.Equal(t, http.StatusOK, rec.Code)

	var params settlersdb.RobotParams
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&params))
	assert.Equal(t, 300, params.MaxGameLength)
	assert.Equal(t, 99, params.MaxETA)
	assert.InDelta(t, 1.5, params.ETABonusFactor, 1e-9)
	service.AssertExpectations(t)
}

func TestHandler_RobotParams_NotFound(t *testing.T) {
	service := new(MockService)
	service.On("RetrieveRobotParams", mock.Anything, "ghost").
		Return(settlersdb.RobotParams{}, false, nil)

	rec := serve(t, newRouter(service), "GET", "/robots/ghost")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UnknownRoute(t *testing.T) {
	service := new(MockService)

	rec := serve(t, newRouter(service), "GET", "/games")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	service := new(MockService)

	rec := serve(t, newRouter(service), "DELETE", "/users/jtest")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "method_not_allowed")
}

func TestHandler_CORS(t *testing.T) {
	service := new(MockService)
	config := &settlershttp.HandlerConfig{
		CORS: settlershttp.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://admin.example.com"},
			AllowedMethods: []string{"GET"},
		},
	}
	h := newConfiguredRouter(config, service)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_CORSDisabled(t *testing.T) {
	service := new(MockService)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
