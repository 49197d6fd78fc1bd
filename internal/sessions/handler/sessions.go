package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	authservice "orgboard/internal/auth/service"
	"orgboard/internal/sessions/service"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type SessionHandler struct {
	service service.DirectoryService
	guard   *authhandler.Guard
	log     *logger.Logger
}

func NewSessionHandler(service service.DirectoryService, guard *authhandler.Guard, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	currentSID, _ := authservice.SIDFrom(r.Context())

	infos, err := h.service.ListActive(r.Context(), currentSID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, infos); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

// Terminate destroys another session by id; the sid travels as a query
// parameter so the admin UI can keep its session rows free of URLs.
func (h *SessionHandler) Terminate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := r.URL.Query().Get("sid")

	if err := h.service.Terminate(r.Context(), sid); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Terminate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	adminOnly := h.guard.RequireRole(model.RoleAdmin)

	router.GET("/api/admin/users", adminOnly(h.List))
	router.DELETE("/api/admin/users", adminOnly(h.Terminate))
}
