// Package server exposes the JSON HTTP API over the task store. Request
// authentication is delegated to a UserResolver; the handlers only ever
// see an already-resolved owner.
package server

import (
	"net/http"

	"github.com/pvesely/webplanner/internal/model"
	"github.com/pvesely/webplanner/internal/store"
)

// Server routes the todo and calendar API.
type Server struct {
	store    store.Store
	resolver UserResolver
	mux      *http.ServeMux
}

// New creates a Server backed by st, resolving request identities with
// resolver.
func New(st store.Store, resolver UserResolver) *Server {
	s := &Server{
		store:    st,
		resolver: resolver,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/todo/lists", s.withUser(s.handleGetLists))
	s.mux.HandleFunc("POST /api/todo/lists", s.withUser(s.handleCreateList))
	s.mux.HandleFunc("DELETE /api/todo/lists/{listID}", s.withUser(s.handleDeleteList))

	s.mux.HandleFunc("GET /api/todo/lists/{listID}/tasks", s.withUser(s.handleListTasks))
	s.mux.HandleFunc("POST /api/todo/lists/{listID}/tasks", s.withUser(s.handleCreateTask))

	s.mux.HandleFunc("GET /api/todo/alltasks", s.withUser(s.handleView(store.ViewAll)))
	s.mux.HandleFunc("GET /api/todo/currentday", s.withUser(s.handleView(store.ViewDueToday)))
	s.mux.HandleFunc("GET /api/todo/overdue", s.withUser(s.handleView(store.ViewOverdue)))
	s.mux.HandleFunc("GET /api/todo/important", s.withUser(s.handleView(store.ViewImportant)))
	s.mux.HandleFunc("GET /api/todo/completed", s.withUser(s.handleView(store.ViewCompleted)))

	s.mux.HandleFunc("PATCH /api/todo/tasks/{taskID}/completed", s.withUser(s.handleSetCompleted))
	s.mux.HandleFunc("PATCH /api/todo/tasks/{taskID}/important", s.withUser(s.handleSetImportant))
	s.mux.HandleFunc("PUT /api/todo/tasks/{taskID}", s.withUser(s.handleUpdateTask))
	s.mux.HandleFunc("DELETE /api/todo/tasks/{taskID}", s.withUser(s.handleDeleteTask))

	s.mux.HandleFunc("GET /api/events", s.withUser(s.handleGetEvents))
	s.mux.HandleFunc("POST /api/events", s.withUser(s.handleCreateEvent))
	s.mux.HandleFunc("PUT /api/events/{eventID}", s.withUser(s.handleUpdateEvent))
	s.mux.HandleFunc("DELETE /api/events/{eventID}", s.withUser(s.handleDeleteEvent))
}

// userHandler is a handler with the request owner already resolved.
type userHandler func(w http.ResponseWriter, r *http.Request, user *model.User)

// withUser resolves the request identity and rejects anonymous calls.
func (s *Server) withUser(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolver.ResolveUser(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h(w, r, user)
	}
}
