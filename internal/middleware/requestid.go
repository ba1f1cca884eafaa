package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const requestIDKey ctxKey = 1

const HeaderRequestID = "X-Request-ID"

// RequestID принимает id клиента, если он разумной длины, иначе выдаёт uuid.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(HeaderRequestID)
			if rid == "" || len(rid) > 64 {
				rid = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			w.Header().Set(HeaderRequestID, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetRequestID(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Logger returns base tagged with the request id, if any.
func Logger(r *http.Request, base zerolog.Logger) zerolog.Logger {
	if rid := GetRequestID(r); rid != "" {
		return base.With().Str("rid", rid).Logger()
	}
	return base
}
