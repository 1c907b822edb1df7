// Package auth holds the stub's bearer-token check. The real portal fronts
// the API with its own auth service; the stub only needs to exercise the
// client's 401 path, so a single configured token is enough.
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Auth struct {
	token string
	log   *slog.Logger
}

func New(token string, log *slog.Logger) *Auth {
	return &Auth{
		token: token,
		log:   log.With("component", "auth_middleware"),
	}
}

func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")

		if len(header) < 7 || header[:7] != "Bearer " {
			a.log.Warn("missing or malformed bearer token", "path", ctx.URL().Path)
			reject(ctx)
			return
		}

		if header[7:] != a.token {
			a.log.Warn("invalid token", "path", ctx.URL().Path)
			reject(ctx)
			return
		}

		next(ctx)
	}
}

func reject(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")
	json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	})
}
