package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rentmarket/internal/models"
	"rentmarket/internal/service"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Таблица код -> человеческое сообщение; для неизвестных кодов общий текст.
var authErrorMessages = map[string]string{
	service.CodeEmailAlreadyInUse:    "Email уже используется",
	service.CodeUsernameAlreadyInUse: "Username уже используется",
	service.CodeInvalidCredential:    "Неверный email или пароль",
}

const genericErrorMessage = "Произошла ошибка"

// AuthErrorMessage переводит ошибку аутентификации в сообщение для пользователя.
func AuthErrorMessage(err error) string {
	for code, message := range authErrorMessages {
		if strings.Contains(err.Error(), code) {
			return message
		}
	}
	return genericErrorMessage
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// statusFromError подбирает HTTP-статус по таксономии ошибок сервиса.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAuth):
		return http.StatusForbidden
	case errors.Is(err, models.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
