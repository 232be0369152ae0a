// Package api реализует HTTP-слой сервера authkeeper.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - валидацию тел запросов (422 с перечнем полей);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// DefaultMaxBodyBytes — лимит тела запроса, если в конфиге не задан.
const DefaultMaxBodyBytes int64 = 1 << 20

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - MaxBodyBytes: максимальный размер тела запроса.
type Handler struct {
	Svc          *service.Services
	Log          *logger.HTTPLogger
	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, maxBodyBytes int64) *Handler {
	if log == nil {
		log = &logger.HTTPLogger{Logger: zap.NewNop()}
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		Svc:          svc,
		Log:          log,
		MaxBodyBytes: maxBodyBytes,
	}
}

// WriteJSON пишет v как JSON с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	resp := shared.ErrorResponse{Detail: err.Error()}

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Errors = verr.Fields
	}
	WriteJSON(w, status, resp)
}

// decodeJSON читает тело запроса в dst с ограничением размера.
//
// Пустое тело, битый JSON и лишние данные после объекта — ошибка валидации.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return &ValidationError{
			Fields: []shared.FieldError{{Field: "body", Message: bodyMessage(err)}},
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &ValidationError{
			Fields: []shared.FieldError{{Field: "body", Message: "unexpected data after JSON object"}},
		}
	}
	return nil
}

var errBodyTooLarge = errors.New("request body too large")

func bodyMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "body required"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return "invalid type for field " + typeErr.Field
	default:
		return serr.ErrBadJSON.Error()
	}
}

// writeServiceError маппит ошибку сервисного слоя в HTTP-ответ.
//
// Неизвестные ошибки логируются и отдаются как 500 без подробностей.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusUnprocessableEntity, verr)
	case errors.Is(err, errBodyTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, serr.ErrEmailExists):
		WriteError(w, http.StatusConflict, serr.ErrEmailExists)
	case errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, serr.ErrInvalidCredentials)
	case errors.Is(err, serr.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, serr.ErrInvalidToken)
	default:
		h.Log.Error(op+" failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}
