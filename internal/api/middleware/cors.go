// cors.go — разрешительная CORS-политика legacy-контракта.
// Любой origin, заголовки и методы основных операций; preflight
// завершается сразу с 200.
package middleware

import "net/http"

// CORS возвращает middleware, добавляющий CORS-заголовки к каждому ответу.
func CORS() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers",
				"Origin, X-Requested-With, Content-Type, Accept, Authorization")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
