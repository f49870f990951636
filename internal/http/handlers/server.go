package handlers

import (
	"log/slog"
	"net/http"

	repo "github.com/rogerio-castellano/inventory-api/internal/repo"
)

// Server holds the dependencies shared by the HTTP handlers. It keeps no
// state of its own between requests.
type Server struct {
	productRepo repo.ProductRepository
	logger      *slog.Logger
}

func NewServer(productRepo repo.ProductRepository, logger *slog.Logger) *Server {
	return &Server{
		productRepo: productRepo,
		logger:      logger.With(slog.String("component", "handlers")),
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger.WarnContext(r.Context(), "failed to write response", slog.Any("error", err))
	}
}

// internalError logs err and answers 500 with a generic detail message.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.ErrorContext(r.Context(), msg,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	s.respond(w, r, http.StatusInternalServerError, ErrorResponse{Detail: msg})
}
