// Package web exposes the attendance store and the ingestion pipeline as a
// JSON API for the back-office UI.
package web

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"bioattend/config"
	"bioattend/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type Server struct {
	store  storage.Store
	cfg    config.Config
	logger *slog.Logger
	router *chi.Mux
}

// NewLogger returns the JSON request logger used by the server, writing ECS
// fields to w at the given level.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "bioattend"),
	)
}

// NewServer builds the API router. A nil logger writes info-level JSON logs
// to stdout.
func NewServer(store storage.Store, cfg config.Config, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = NewLogger(os.Stdout, slog.LevelInfo)
	}

	s := &Server{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", s.handleListActivities)
			r.Delete("/", s.handleDeleteActivities)
			r.Post("/upload-excel", s.handleUploadExcel)
			r.Post("/upload", s.handleUploadActivities)
		})

		r.Route("/monthly-summaries", func(r chi.Router) {
			r.Get("/", s.handleListSummaries)
			r.Delete("/", s.handleDeleteAllSummaries)
			r.Get("/stats", s.handleSummaryStats)
			r.Post("/recalculate", s.handleRecalculate)
			r.Get("/employee/{empId}", s.handleEmployeeSummaries)
			r.Delete("/employee/{empId}", s.handleDeleteEmployeeSummaries)
			r.Delete("/{id}", s.handleDeleteSummary)
		})
	})

	return r
}
