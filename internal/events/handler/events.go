package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	authservice "orgboard/internal/auth/service"
	"orgboard/internal/events"
	lockservice "orgboard/internal/locks/service"
	"orgboard/pkg/config"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

// EventsHandler serves the persistent push channel as a server-sent
// event stream. Role filtering happens at publish time; any
// authenticated client may connect.
type EventsHandler struct {
	bus   *events.Bus
	locks lockservice.LockService
	guard *authhandler.Guard
	cfg   *config.Config
	log   *logger.Logger
}

func NewEventsHandler(bus *events.Bus, locks lockservice.LockService, guard *authhandler.Guard, cfg *config.Config) *EventsHandler {
	return &EventsHandler{
		bus:   bus,
		locks: locks,
		guard: guard,
		cfg:   cfg,
		log:   cfg.Log,
	}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := authservice.IdentityFrom(r.Context())

	rc := http.NewResponseController(w)
	// The stream outlives the server's per-connection deadlines.
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sub := h.bus.Subscribe(identity.Roles)
	defer h.bus.Unsubscribe(sub)

	h.log.Info("Event stream opened",
		"subscriber_id", sub.ID,
		"username", identity.Username,
		"remote_addr", r.RemoteAddr,
	)

	// Bring a freshly connected admin up to date on held locks so its UI
	// reconciles immediately instead of waiting for the next transition.
	if identity.IsAdmin() {
		for _, lock := range h.locks.List(r.Context()) {
			h.writeEvent(w, rc, model.Event{
				Type: model.EventEditLockChanged,
				Data: model.LockChange{Resource: lock.Resource, Owner: lock.Owner, Locked: true},
			})
		}
	}

	heartbeat := time.NewTicker(h.cfg.EventHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case event, open := <-sub.C:
			if !open {
				return
			}
			if !h.writeEvent(w, rc, event) {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case <-r.Context().Done():
			h.log.Info("Event stream closed", "subscriber_id", sub.ID)
			return
		}
	}
}

func (h *EventsHandler) writeEvent(w http.ResponseWriter, rc *http.ResponseController, event model.Event) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", "event_type", event.Type, "error", err)
		return true
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return false
	}
	if err := rc.Flush(); err != nil {
		return false
	}
	return true
}

func (h *EventsHandler) RegisterRoutes(router *httprouter.Router) {
	anyRole := h.guard.RequireRole(model.RoleAdmin, model.RoleUser)

	router.GET("/api/events", anyRole(h.Stream))
}
