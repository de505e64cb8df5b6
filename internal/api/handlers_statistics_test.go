package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/stretchr/testify/assert"
)

type fakeStatistics struct {
	forwardResult *core.ForwardResult
	forwardErr    error
	forwardCalls  int
	count         int64
	countErr      error
}

func (f *fakeStatistics) ForwardLoginEvent(_ context.Context, deviceType, userKey string) (*core.ForwardResult, error) {
	f.forwardCalls++
	return f.forwardResult, f.forwardErr
}

func (f *fakeStatistics) DeviceTypeCount(_ context.Context, deviceType string) (int64, error) {
	return f.count, f.countErr
}

func newStatisticsRouter(service StatisticsBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := testLogger()
	handlers := NewStatisticsHandlers(service, logger)
	SetupStatisticsRoutes(router, handlers, core.NewTokenVerifier("VALIDTOKEN"), logger)
	return router
}

func TestStatisticsAuthentication(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "write with wrong token", method: http.MethodPost, path: "/Log/auth", body: `{"deviceType":"camera"}`},
		{name: "count query with wrong token", method: http.MethodGet, path: "/Log/auth/statistics/camera"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeStatistics{}
			router := newStatisticsRouter(service)

			w := doRequest(router, tt.method, tt.path, "WRONGTOKEN", tt.body)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.JSONEq(t, `{"message":"Authentication failed"}`, w.Body.String())
			assert.Zero(t, service.forwardCalls)
		})
	}
}

func TestSendLoginEvent(t *testing.T) {
	t.Run("downstream success is mirrored", func(t *testing.T) {
		service := &fakeStatistics{forwardResult: &core.ForwardResult{StatusCode: http.StatusOK, Message: "success"}}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodPost, "/Log/auth", "VALIDTOKEN", `{"deviceType":"camera"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"StatusCode":200,"message":"success"}`, w.Body.String())
	})

	t.Run("downstream bad request is mirrored", func(t *testing.T) {
		service := &fakeStatistics{forwardResult: &core.ForwardResult{StatusCode: http.StatusBadRequest, Message: "bad_request"}}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodPost, "/Log/auth", "VALIDTOKEN", `{"deviceType":"camera"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"StatusCode":400,"message":"bad_request"}`, w.Body.String())
	})

	t.Run("unexpected downstream status yields 409", func(t *testing.T) {
		service := &fakeStatistics{forwardResult: &core.ForwardResult{
			StatusCode: http.StatusConflict,
			Message:    "an error occurred during device registration",
		}}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodPost, "/Log/auth", "VALIDTOKEN", `{"deviceType":"camera"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("malformed JSON yields 400 without a forward", func(t *testing.T) {
		service := &fakeStatistics{}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodPost, "/Log/auth", "VALIDTOKEN", `{"deviceType"`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, service.forwardCalls)
	})

	t.Run("missing deviceType key yields 400 without a forward", func(t *testing.T) {
		service := &fakeStatistics{}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodPost, "/Log/auth", "VALIDTOKEN", `{"type":"camera"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, service.forwardCalls)
	})

	t.Run("empty deviceType yields 400", func(t *testing.T) {
		service := &fakeStatistics{forwardErr: core.ErrInvalidPayload}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodPost, "/Log/auth", "VALIDTOKEN", `{"deviceType":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("transport failure yields 500 with a generic message", func(t *testing.T) {
		service := &fakeStatistics{forwardErr: core.ErrTransport}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodPost, "/Log/auth", "VALIDTOKEN", `{"deviceType":"camera"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "dial")
	})
}

func TestGetDeviceCount(t *testing.T) {
	t.Run("known type returns its count", func(t *testing.T) {
		service := &fakeStatistics{count: 1}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodGet, "/Log/auth/statistics/camera", "VALIDTOKEN", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deviceType":"camera","count":1}`, w.Body.String())
	})

	t.Run("unknown type returns the -1 sentinel", func(t *testing.T) {
		service := &fakeStatistics{count: core.CountUnknown}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodGet, "/Log/auth/statistics/toaster", "VALIDTOKEN", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deviceType":"toaster","count":-1}`, w.Body.String())
	})

	t.Run("read failure yields 520", func(t *testing.T) {
		service := &fakeStatistics{countErr: core.ErrReadFailed}
		router := newStatisticsRouter(service)

		w := doRequest(router, http.MethodGet, "/Log/auth/statistics/camera", "VALIDTOKEN", "")

		assert.Equal(t, 520, w.Code)
		assert.Contains(t, w.Body.String(), "message")
	})
}

func TestStatisticsServiceEndpoints(t *testing.T) {
	router := newStatisticsRouter(&fakeStatistics{})

	t.Run("info", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"INFO":"StatisticsAPI component"}`, w.Body.String())
	})

	t.Run("status", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/status", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"INFO":"StatisticsAPI status OK..."}`, w.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/Log/unknown", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Resource not found"}`, w.Body.String())
	})
}
