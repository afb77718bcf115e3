package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/KakraGeek/staykasa-booking-service/internal/api/handlers"
	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
)

const (
	// HeaderUserID идентификатор пользователя, проставляется API gateway
	HeaderUserID = "X-User-ID"
	// HeaderUserRole роль пользователя: guest, host, admin или system
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingUserID = "missing or invalid X-User-ID header"
	msgInvalidRole   = "missing or invalid X-User-Role header"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// Auth извлекает пользователя и роль из заголовков и кладёт их в контекст
// Аутентификацию выполняет вышестоящий gateway, здесь только идентификация
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		role := r.Header.Get(HeaderUserRole)
		if !domain.ValidRole(role) {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, domain.ActorRole(role))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetUserRole возвращает роль пользователя из контекста
func GetUserRole(ctx context.Context) (domain.ActorRole, bool) {
	role, ok := ctx.Value(userRoleKey).(domain.ActorRole)
	return role, ok
}

// GetActor возвращает действующее лицо из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	id, okID := GetUserID(ctx)
	role, okRole := GetUserRole(ctx)
	if !okID || !okRole {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}
