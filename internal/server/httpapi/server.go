// Package httpapi exposes the observation log over HTTP. Handlers decode
// requests, call exactly one service, and shape the response; all domain
// rules live in the services package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/obslog/internal/logging"
	"github.com/dmitrijs2005/obslog/internal/server/mail"
	"github.com/dmitrijs2005/obslog/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Handlers bundles the services the route handlers call into.
type Handlers struct {
	auth         *services.AuthService
	users        *services.UserService
	observations *services.ObservationService
	attachments  *services.AttachmentService
	taxonomy     *services.TaxonomyService
	mailer       mail.Mailer
	devMode      bool
}

func NewHandlers(
	auth *services.AuthService,
	users *services.UserService,
	observations *services.ObservationService,
	attachments *services.AttachmentService,
	taxonomy *services.TaxonomyService,
	mailer mail.Mailer,
	devMode bool,
) *Handlers {
	return &Handlers{
		auth:         auth,
		users:        users,
		observations: observations,
		attachments:  attachments,
		taxonomy:     taxonomy,
		mailer:       mailer,
		devMode:      devMode,
	}
}

// Router builds the full route table.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/request-code", h.handleRequestCode).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-code", h.handleVerifyCode).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", requireAuth(h.handleMe)).Methods(http.MethodGet)
	api.HandleFunc("/auth/profile", requireAuth(h.handleUpdateProfile)).Methods(http.MethodPatch)

	api.HandleFunc("/observations", requireAuth(h.handleListObservations)).Methods(http.MethodGet)
	api.HandleFunc("/observations", requireAuth(h.handleCreateObservation)).Methods(http.MethodPost)
	api.HandleFunc("/observations/{id}", requireAuth(h.handleGetObservation)).Methods(http.MethodGet)
	api.HandleFunc("/observations/{id}", requireAuth(h.handleUpdateObservation)).Methods(http.MethodPatch)
	api.HandleFunc("/observations/{id}", requireAuth(h.handleDeleteObservation)).Methods(http.MethodDelete)

	api.HandleFunc("/observations/{id}/attachments", requireAuth(h.handleUploadAttachment)).Methods(http.MethodPost)
	api.HandleFunc("/observations/{id}/attachments/{attachmentId}", requireAuth(h.handleGetAttachment)).Methods(http.MethodGet)
	api.HandleFunc("/observations/{id}/attachments/{attachmentId}", requireAuth(h.handleDeleteAttachment)).Methods(http.MethodDelete)

	api.HandleFunc("/meta/projects", requireAuth(h.handleListProjects)).Methods(http.MethodGet)
	api.HandleFunc("/meta/projects", requireAuth(h.handleCreateProject)).Methods(http.MethodPost)
	api.HandleFunc("/meta/projects/{id}", requireAuth(h.handleDeleteProject)).Methods(http.MethodDelete)
	api.HandleFunc("/meta/tags", requireAuth(h.handleListTags)).Methods(http.MethodGet)
	api.HandleFunc("/meta/tags", requireAuth(h.handleCreateTag)).Methods(http.MethodPost)
	api.HandleFunc("/meta/tags/{id}", requireAuth(h.handleDeleteTag)).Methods(http.MethodDelete)

	api.HandleFunc("/export/observation/{id}", requireAuth(h.handleExportObservation)).Methods(http.MethodGet)

	return r
}

// Server runs the HTTP endpoint with graceful shutdown on context
// cancellation.
type Server struct {
	addr   string
	logger logging.Logger
	srv    *http.Server
}

func NewServer(addr string, handlers *Handlers, logger logging.Logger) *Server {
	return &Server{
		addr:   addr,
		logger: logger,
		srv: &http.Server{
			Addr:    addr,
			Handler: handlers.Router(),
		},
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "starting HTTP server", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
