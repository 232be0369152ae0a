// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое. Публичные сообщения
// намеренно грубые: по ним нельзя понять, какая именно проверка не прошла.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrValidation = errors.New("validation error")
	// Тело запроса не удалось разобрать как JSON
	ErrBadJSON = errors.New("invalid json body")
	// Email уже зарегистрирован
	ErrEmailExists = errors.New("Email already registered")
	// Неверные учётные данные (нет пользователя, неактивен, неверный пароль)
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// Токен невалиден, просрочен или указывает на несуществующего/неактивного пользователя
	ErrInvalidToken = errors.New("Invalid or expired token")
	// Заголовок Authorization отсутствует или не в формате Bearer
	ErrNotAuthenticated = errors.New("Not authenticated")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("Internal server error")
)

// для тестов
var ErrExpectedError = errors.New("expected error")
