package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"orgboard/internal/auth/service"
	"orgboard/pkg/config"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type AuthHandler struct {
	auth  service.AuthService
	guard *Guard
	cfg   *config.Config
	log   *logger.Logger
}

func NewAuthHandler(auth service.AuthService, guard *Guard, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		auth:  auth,
		guard: guard,
		cfg:   cfg,
		log:   cfg.Log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	session, identity, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    session.SID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if err := httputil.WriteSuccess(w, identity); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if sid, ok := service.SIDFrom(r.Context()); ok {
		if err := h.auth.Logout(r.Context(), sid); err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Logout", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteNoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := service.IdentityFrom(r.Context())
	if err := httputil.WriteSuccess(w, identity); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	anyRole := h.guard.RequireRole(model.RoleAdmin, model.RoleUser)

	router.POST("/api/login", h.Login)
	router.POST("/api/logout", anyRole(h.Logout))
	router.GET("/api/me", anyRole(h.Me))
}
