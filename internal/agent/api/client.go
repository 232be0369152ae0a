// Package api содержит HTTP-клиент для взаимодействия с сервером authkeeper.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов (POST/GET/PATCH)
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *APIError с detail из тела ответа.
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// DefaultTimeout — таймаут HTTP-запроса по умолчанию.
const DefaultTimeout = 10 * time.Second

// Client реализует HTTP-клиент для общения с сервером.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithInsecureTLS отключает проверку сертификата сервера.
//
// ВНИМАНИЕ: делает TLS уязвимым для MITM. Только для локальной разработки
// с самоподписанным сертификатом.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
		}
	}
}

// WithHTTPClient подменяет http.Client (например, в тестах).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// baseURL — базовый адрес сервера (например: "http://127.0.0.1:8008").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError — ответ сервера с кодом не 2xx.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     []shared.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Detail)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Detail, strings.Join(parts, "; "))
}

// IsStatus сообщает, что err — APIError с указанным HTTP-статусом.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// readAPIError читает тело ответа сервера и возвращает *APIError.
//
// Если тело — JSON вида {"detail": "..."}, берётся detail,
// иначе весь текст тела, а при пустом теле — res.Status.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	apiErr := &APIError{StatusCode: res.StatusCode}

	var body shared.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
		apiErr.Fields = body.Errors
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(raw))
	if apiErr.Detail == "" {
		apiErr.Detail = res.Status
	}
	return apiErr
}

// decodeJSONOrOK декодирует JSON из r в resp.
//
// Если resp == nil — ничего не делает. Пустое тело (io.EOF) не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do выполняет запрос и декодирует ответ.
//
// req == nil — запрос без тела; resp == nil — ответ не декодируется;
// непустой authToken добавляет Authorization: Bearer <token>.
func (c *Client) do(method, path string, req any, resp any, authToken string) error {
	var body io.Reader
	if req != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
		body = &buf
	}

	r, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeJSONOrOK(res.Body, resp)
}

// PostJSON выполняет POST-запрос, сериализуя req в JSON.
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	return c.do(http.MethodPost, path, req, resp, authToken)
}

// GetJSON выполняет GET-запрос и (опционально) декодирует JSON-ответ.
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	return c.do(http.MethodGet, path, nil, resp, authToken)
}

// PatchJSON выполняет PATCH-запрос, сериализуя req в JSON.
func (c *Client) PatchJSON(path string, req any, resp any, authToken string) error {
	return c.do(http.MethodPatch, path, req, resp, authToken)
}
