package idempotency

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const Header = "Idempotency-Key"

// Middleware rejects a replayed Idempotency-Key with 409. Requests without
// the header pass through. A key stays claimed only after a 2xx response;
// any other outcome releases it so the client can retry with the same key.
func Middleware(log *slog.Logger, store *Store, scope func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(Header)
			if token == "" || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := store.RequestKey(scope(r), r.Method, r.URL.Path, token)
			seen, err := store.Seen(r.Context(), key)
			if err != nil {
				log.Error("idempotency check failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "duplicate request"})
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				if err := store.Forget(r.Context(), key); err != nil {
					log.Error("idempotency release failed", "key", key, "err", err)
				}
			}
		})
	}
}
