package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	authservice "orgboard/internal/auth/service"
	"orgboard/internal/locks/service"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type LockHandler struct {
	service service.LockService
	guard   *authhandler.Guard
	log     *logger.Logger
}

func NewLockHandler(service service.LockService, guard *authhandler.Guard, log *logger.Logger) *LockHandler {
	return &LockHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type lockRequest struct {
	Resource string `json:"resource"`
}

func (h *LockHandler) Acquire(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req lockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Acquire", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	identity, _ := authservice.IdentityFrom(r.Context())

	lock, err := h.service.Acquire(r.Context(), req.Resource, identity)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Acquire", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, lock); err != nil {
		h.log.Error("failed to write success response", "handler", "Acquire", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LockHandler) Release(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req lockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Release", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	identity, _ := authservice.IdentityFrom(r.Context())

	if err := h.service.Release(r.Context(), req.Resource, identity); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Release", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LockHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.List(r.Context())); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LockHandler) ForceRelease(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := authservice.IdentityFrom(r.Context())

	if err := h.service.ForceRelease(r.Context(), ps.ByName("resource"), identity); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ForceRelease", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LockHandler) RegisterRoutes(router *httprouter.Router) {
	adminOnly := h.guard.RequireRole(model.RoleAdmin)

	router.POST("/api/admin/locks/acquire", adminOnly(h.Acquire))
	router.POST("/api/admin/locks/release", adminOnly(h.Release))
	router.GET("/api/admin/locks", adminOnly(h.List))
	router.DELETE("/api/admin/locks/:resource", adminOnly(h.ForceRelease))
}
