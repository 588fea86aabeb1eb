package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/pvesely/webplanner/internal/model"
	"github.com/pvesely/webplanner/internal/store"
)

// eventRequest is the POST/PUT body for calendar events. Start and end
// are RFC 3339 instants; an empty end means an open-ended event.
type eventRequest struct {
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	AllDay bool   `json:"all_day"`
}

// parseEventRequest validates the body and converts it to a store update.
func parseEventRequest(req eventRequest) (store.EventUpdate, string) {
	if strings.TrimSpace(req.Title) == "" || req.Start == "" {
		return store.EventUpdate{}, "Title and start are required"
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return store.EventUpdate{}, "Start must be an RFC 3339 timestamp"
	}

	upd := store.EventUpdate{
		Title:   req.Title,
		StartAt: start,
		AllDay:  req.AllDay,
	}
	if req.End != "" {
		end, err := time.Parse(time.RFC3339, req.End)
		if err != nil {
			return store.EventUpdate{}, "End must be an RFC 3339 timestamp"
		}
		if start.After(end) {
			return store.EventUpdate{}, "End time cannot be before start time."
		}
		upd.EndAt = &end
	}
	return upd, ""
}

// handleGetEvents returns the owner's calendar events ordered by start.
func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request, user *model.User) {
	events, err := s.store.GetEvents(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err, "Not found", "Failed to fetch events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleCreateEvent creates a calendar event.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Title and start are required")
		return
	}
	upd, msg := parseEventRequest(req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	event, err := s.store.CreateEvent(r.Context(), user.ID, upd)
	if err != nil {
		writeStoreError(w, err, "Not found", "Failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// handleUpdateEvent replaces an event's fields.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Title and start are required")
		return
	}
	upd, msg := parseEventRequest(req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.store.UpdateEvent(r.Context(), user.ID, r.PathValue("eventID"), upd); err != nil {
		writeStoreError(w, err, "Event not found", "Failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDeleteEvent removes an event.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request, user *model.User) {
	err := s.store.DeleteEvent(r.Context(), user.ID, r.PathValue("eventID"))
	if err != nil {
		writeStoreError(w, err, "Event not found", "Failed to delete event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
