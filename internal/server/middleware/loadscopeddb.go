package middleware

import (
	"net/http"

	"github.com/zkmarket/mintworkersrv/internal/db"
)

func LoadScopedDB(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := db.ConnCtx(r.Context())
		if s := db.DB(ctx); s != nil {
			defer s.Close(ctx)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
