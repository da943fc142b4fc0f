package server

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacesedan/safegram/internal/auth"
	"github.com/spacesedan/safegram/internal/db"
	"github.com/spacesedan/safegram/internal/submission"
	"github.com/spacesedan/safegram/internal/uploads"
)

const sessionCookieName = "safegram_session"

type Server struct {
	orchestrator      *submission.Orchestrator
	store             *db.Store
	identity          *auth.Provider
	uploader          *uploads.Uploader
	storeHealthy      *atomic.Bool
	classifierHealthy *atomic.Bool
}

func New(
	orchestrator *submission.Orchestrator,
	store *db.Store,
	identity *auth.Provider,
	uploader *uploads.Uploader,
	storeHealthy, classifierHealthy *atomic.Bool,
) *Server {
	return &Server{
		orchestrator:      orchestrator,
		store:             store,
		identity:          identity,
		uploader:          uploader,
		storeHealthy:      storeHealthy,
		classifierHealthy: classifierHealthy,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/signin", s.handleSignIn).Methods(http.MethodPost)
	api.HandleFunc("/auth/signout", s.handleSignOut).Methods(http.MethodPost)
	api.HandleFunc("/feed", s.handleFeed).Methods(http.MethodGet)
	api.HandleFunc("/posts", s.handleCreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments", s.handleCreateComment).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments", s.handleListComments).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/like", s.handleLike).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/like", s.handleUnlike).Methods(http.MethodDelete)
	api.HandleFunc("/uploads", s.handleUpload).Methods(http.MethodPost)

	return r
}
