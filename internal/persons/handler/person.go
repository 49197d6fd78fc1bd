package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	"orgboard/internal/persons/service"
	httputil "orgboard/pkg/httputil"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

const maxListLimit = 500

type PersonHandler struct {
	service service.PersonService
	guard   *authhandler.Guard
	log     *logger.Logger
}

func NewPersonHandler(service service.PersonService, guard *authhandler.Guard, log *logger.Logger) *PersonHandler {
	return &PersonHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var person model.Person
	if err := json.NewDecoder(r.Body).Decode(&person); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &person); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, person); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PersonHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	person, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, person); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PersonHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r, maxListLimit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	filter := r.URL.Query().Get("filter")

	persons, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, persons, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PersonUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	person, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, person); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PersonHandler) RegisterRoutes(router *httprouter.Router) {
	anyRole := h.guard.RequireRole(model.RoleAdmin, model.RoleUser)
	adminOnly := h.guard.RequireRole(model.RoleAdmin)

	router.GET("/api/persons", anyRole(h.GetAll))
	router.GET("/api/persons/:id", anyRole(h.GetByID))
	router.POST("/api/persons", adminOnly(h.Create))
	router.PUT("/api/persons/:id", adminOnly(h.Update))
	router.DELETE("/api/persons/:id", adminOnly(h.Delete))
}
