package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
)

// Заголовки, проставляемые API Gateway после аутентификации
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Роли пользователей
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

const (
	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgInvalidRole   = "некорректный заголовок X-User-Role"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// Auth извлекает идентификатор и роль пользователя из заголовков
// и кладет их в контекст запроса. Запросы без X-User-ID отклоняются.
// Роль по умолчанию - customer.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := r.Header.Get(HeaderUserRole)
		if role == "" {
			role = RoleCustomer
		}
		if role != RoleCustomer && role != RoleStaff {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetUserRole возвращает роль пользователя из контекста
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(userRoleKey).(string)
	return role, ok
}
