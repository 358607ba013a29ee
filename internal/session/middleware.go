package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

// Header carries the session token in both directions.
const Header = "X-Cart-Session"

type ctxKey struct{}

// FromContext returns the session id, or "" when the request is unscoped.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Middleware binds each request to a cart session. A valid token keeps its
// session; a missing or invalid one starts a new session. Every response
// carries a freshly signed token so the expiry slides with activity.
func Middleware(tm *TokenMaker, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if tok := r.Header.Get(Header); tok != "" {
				claims, err := tm.Parse(tok)
				if err != nil {
					log.Debug("session token rejected", zap.Error(err))
				} else {
					sid = claims.SessionID
				}
			}
			if sid == "" {
				sid = "s_" + uuid.NewString()
			}

			tok, err := tm.New(sid)
			if err != nil {
				log.Error("session token issue", zap.Error(err))
				kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
				return
			}
			w.Header().Set(Header, tok)

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
		})
	}
}
