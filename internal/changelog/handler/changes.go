package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	"orgboard/internal/changelog/service"
	apperrors "orgboard/pkg/errors"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type ChangeLogHandler struct {
	service service.ChangeLogService
	guard   *authhandler.Guard
	log     *logger.Logger
}

func NewChangeLogHandler(service service.ChangeLogService, guard *authhandler.Guard, log *logger.Logger) *ChangeLogHandler {
	return &ChangeLogHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *ChangeLogHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid limit parameter: "+s)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		limit = v
	}

	entries, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ChangeLogHandler) RegisterRoutes(router *httprouter.Router) {
	adminOnly := h.guard.RequireRole(model.RoleAdmin)

	router.GET("/api/admin/changes", adminOnly(h.List))
}
