package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout ограничивает контекст запроса. Обработчик сам отвечает
// по ошибке контекста, ответ пишется только из его горутины.
func Timeout(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
