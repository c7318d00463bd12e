// Package httpapi exposes the REST surface of the Found & Loss server:
// registration/login, the public listing catalog, and the owner-scoped
// item operations.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/foundloss/internal/logging"
	"github.com/dmitrijs2005/foundloss/internal/server/services"
	"github.com/gorilla/mux"
)

type HTTPServer struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	items       *services.ItemService
	uploads     *services.UploadService
	corsOrigins []string
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, is *services.ItemService, up *services.UploadService, corsOrigins string) *HTTPServer {
	return &HTTPServer{
		address:     a,
		logger:      l.With("module", "http_server"),
		users:       us,
		items:       is,
		uploads:     up,
		corsOrigins: splitOrigins(corsOrigins),
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Router wires every route under the /api prefix. CORS wraps the whole
// router so preflight requests are answered even for method-bound routes.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.requireUser(s.handleMe)).Methods(http.MethodGet)

	api.HandleFunc("/items", s.requireUser(s.handleCreateItem)).Methods(http.MethodPost)
	api.HandleFunc("/items", s.handleListItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", s.handleGetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}/status", s.requireUser(s.handleUpdateItemStatus)).Methods(http.MethodPut)
	api.HandleFunc("/my-items", s.requireUser(s.handleMyItems)).Methods(http.MethodGet)
	api.HandleFunc("/contact-owner", s.handleContactOwner).Methods(http.MethodPost)

	if s.uploads != nil && s.uploads.Enabled() {
		api.HandleFunc("/uploads", s.requireUser(s.handleCreateUpload)).Methods(http.MethodPost)
		// storage keys contain slashes
		api.HandleFunc("/uploads/{key:.+}", s.requireUser(s.handleDownloadURL)).Methods(http.MethodGet)
	}

	api.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	return s.corsMiddleware(r)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
