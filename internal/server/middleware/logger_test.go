package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"
)

// Статус по умолчанию и размер
func TestResponseWriter_Write_DefaultStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &middleware.ResponseWriter{ResponseWriter: rr}

	body := []byte("hello")
	n, err := w.Write(body)

	require.NoError(t, err)
	require.Equal(t, len(body), n)
	require.Equal(t, http.StatusOK, w.Status)
	require.Equal(t, len(body), w.Size)
}

// вспомогательная функция
func testHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

// проверка корректного прохода статуса и тела через мидлу и записи в лог
func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mw := middleware.LoggerMiddleware(&logger.HTTPLogger{Logger: zap.New(core)})

	handler := chimw.RequestID(mw(testHandler(http.StatusTeapot, "tea")))

	req := httptest.NewRequest(http.MethodGet, "/test?x=1", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.Equal(t, "tea", rr.Body.String())

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "GET", fields["method"])
	require.Equal(t, "/test?x=1", fields["uri"])
	require.EqualValues(t, http.StatusTeapot, fields["status"])
	require.EqualValues(t, 3, fields["response_size"])
	require.NotEmpty(t, fields["request_id"])
}
