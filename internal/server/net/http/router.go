// Package http реализует маршрутизацию HTTP-слоя сервера authkeeper.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - подключение проверки bearer-токена к защищённым маршрутам.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - health-эндпоинты и swagger;
//   - публичные эндпоинты аутентификации под префиксом /auth;
//   - группу /users, защищённую BearerGuard.
func NewRouter(h *api.Handler, guard *middleware.BearerGuard, log *logger.HTTPLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(log))
	// паника в хендлере — 500, а не обрыв соединения
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	})

	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Публичные пути
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// защищённые пути
	r.Route("/users", func(r chi.Router) {
		r.Use(guard.Middleware)
		r.Get("/me", h.Me)
		r.Patch("/me", h.UpdateMe)
	})

	return r
}
