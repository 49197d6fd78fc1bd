package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	"orgboard/internal/tasks/service"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type TaskHandler struct {
	service service.TaskService
	guard   *authhandler.Guard
	log     *logger.Logger
}

func NewTaskHandler(service service.TaskService, guard *authhandler.Guard, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var task model.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &task); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, task); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	task, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, task); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetAll lists tasks, optionally restricted to a comma-separated set of
// team IDs via ?teams=.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var teamIDs []string
	if raw := r.URL.Query().Get("teams"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				teamIDs = append(teamIDs, id)
			}
		}
	}

	tasks, err := h.service.GetByTeams(r.Context(), teamIDs)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, tasks); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	task, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, task); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TaskHandler) RegisterRoutes(router *httprouter.Router) {
	anyRole := h.guard.RequireRole(model.RoleAdmin, model.RoleUser)
	adminOnly := h.guard.RequireRole(model.RoleAdmin)

	router.GET("/api/tasks", anyRole(h.GetAll))
	router.GET("/api/tasks/:id", anyRole(h.GetByID))
	router.POST("/api/tasks", adminOnly(h.Create))
	router.PUT("/api/tasks/:id", adminOnly(h.Update))
	router.DELETE("/api/tasks/:id", adminOnly(h.Delete))
}
