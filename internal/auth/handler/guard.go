package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"orgboard/internal/auth/service"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/model"
)

// Guard resolves the session cookie into an acting identity and gates
// routes by role. Every protected route goes through RequireRole.
type Guard struct {
	auth service.AuthService
	cfg  *config.Config
}

func NewGuard(auth service.AuthService, cfg *config.Config) *Guard {
	return &Guard{auth: auth, cfg: cfg}
}

func (g *Guard) RequireRole(roles ...model.Role) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			cookie, err := r.Cookie(g.cfg.SessionCookieName)
			if err != nil {
				g.reject(w, apperrors.Unauthorized("Authentication required"))
				return
			}

			identity, err := g.auth.Identify(r.Context(), cookie.Value)
			if err != nil {
				g.reject(w, err)
				return
			}

			if !identity.HasRole(roles...) {
				g.reject(w, apperrors.Forbidden("Insufficient role for this operation"))
				return
			}

			ctx := service.WithIdentity(r.Context(), identity)
			ctx = service.WithSID(ctx, cookie.Value)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

func (g *Guard) reject(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		g.cfg.Log.Error("failed to write error response", "handler", "Guard", "error", writeErr)
	}
}
