package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthzHidesFailureDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := logtest.NewNullLogger()
	dsnErr := errors.New(`failed to connect to host=db.internal user=conduit password=secret`)

	h := NewHealthHandler(map[string]Check{
		"postgres": func(context.Context) error { return dsnErr },
		"redis":    func(context.Context) error { return nil },
	}, logger)
	r := gin.New()
	r.GET("/healthz", h.Healthz)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"Service Unavailable","checks":{"postgres":"fail","redis":"ok"}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "db.internal")

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "postgres", entry.Data["check"])
	assert.Equal(t, dsnErr, entry.Data[logrus.ErrorKey])
}

func TestHealthzAllPassing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", NewHealthHandler(map[string]Check{
		"postgres": func(context.Context) error { return nil },
	}, nil).Healthz)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","checks":{"postgres":"ok"}}`, w.Body.String())
}
