// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"
)

type ResponseWriter struct {
	http.ResponseWriter
	Status int
	Size   int
}

func (w *ResponseWriter) WriteHeader(Status int) {
	w.Status = Status
	w.ResponseWriter.WriteHeader(Status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	Size, err := w.ResponseWriter.Write(b)
	w.Size += Size
	return Size, err
}

// LoggerMiddleware пишет по строке на запрос: метод, uri, статус, размер, длительность.
// Если log == nil, пишет в файл по умолчанию.
func LoggerMiddleware(log *logger.HTTPLogger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewHTTPLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wr := &ResponseWriter{ResponseWriter: w}
			next.ServeHTTP(wr, r)

			reqLog := log
			if id := chimw.GetReqID(r.Context()); id != "" {
				reqLog = &logger.HTTPLogger{Logger: log.With(zap.String("request_id", id))}
			}

			duration := time.Since(start).Seconds() * 1000
			reqLog.LogRequest(r.Method, r.RequestURI, wr.Status, wr.Size, duration)
		})
	}
}
