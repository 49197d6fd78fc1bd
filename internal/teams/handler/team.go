package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	"orgboard/internal/teams/service"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type TeamHandler struct {
	service service.TeamService
	guard   *authhandler.Guard
	log     *logger.Logger
}

func NewTeamHandler(service service.TeamService, guard *authhandler.Guard, log *logger.Logger) *TeamHandler {
	return &TeamHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var team model.Team
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &team); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, team); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	team, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, team); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TeamHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	teams, err := h.service.GetAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, teams); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.TeamUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	team, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, team); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TeamHandler) RegisterRoutes(router *httprouter.Router) {
	anyRole := h.guard.RequireRole(model.RoleAdmin, model.RoleUser)
	adminOnly := h.guard.RequireRole(model.RoleAdmin)

	router.GET("/api/teams", anyRole(h.GetAll))
	router.GET("/api/teams/:id", anyRole(h.GetByID))
	router.POST("/api/teams", adminOnly(h.Create))
	router.PUT("/api/teams/:id", adminOnly(h.Update))
	router.DELETE("/api/teams/:id", adminOnly(h.Delete))
}
