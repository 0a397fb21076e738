package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchprovider/internal/domain"
	logpkg "github.com/kailas-cloud/searchprovider/internal/logger"
	"github.com/kailas-cloud/searchprovider/model"
)

// DashboardURL is where the dashboard redirect endpoint sends the browser.
const DashboardURL = "https://dashboard.algolia.com"

const maxBatchSize = 1000

// SearchProvider is the provider surface exposed over HTTP.
type SearchProvider interface {
	DeleteIndex(ctx context.Context, documentType string) error
	Index(ctx context.Context, documentType string, documents []model.IndexDocument) (*model.IndexingResult, error)
	Remove(ctx context.Context, documentType string, documents []model.IndexDocument) (*model.IndexingResult, error)
	Search(ctx context.Context, documentType string, req *model.SearchRequest) (*model.SearchResponse, error)
}

// HealthCheck reports the health of one dependency.
type HealthCheck func(ctx context.Context) error

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Server serves the provider JSON API. A nil provider leaves the
// index and search routes unregistered.
type Server struct {
	provider      SearchProvider
	checks        map[string]HealthCheck
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(provider SearchProvider, checks map[string]HealthCheck, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		provider: provider,
		checks:   checks,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		invalidArgumentHandler,
		sentinelHandler(domain.ErrSearch, http.StatusBadGateway, ErrorCodeSearchServiceError),
		sentinelHandler(domain.ErrConfiguration, http.StatusInternalServerError, ErrorCodeInternalError),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/api/algolia-search/redirect", s.DashboardRedirect)

	if s.provider == nil {
		return
	}
	r.Route("/indexes/{documentType}", func(r gochi.Router) {
		r.Delete("/", s.DeleteIndex)
		r.Post("/documents", s.IndexDocuments)
		r.Post("/documents/delete", s.RemoveDocuments)
		r.Post("/search", s.Search)
	})
}

// DeleteIndex handles DELETE /indexes/{documentType}.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.DeleteIndex(r.Context(), gochi.URLParam(r, "documentType")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IndexDocuments handles POST /indexes/{documentType}/documents.
func (s *Server) IndexDocuments(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) > maxBatchSize {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("Batch size %d exceeds maximum of %d", len(req.Documents), maxBatchSize))
		return
	}

	docs, err := documentsFromDTO(req.Documents)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.provider.Index(r.Context(), gochi.URLParam(r, "documentType"), docs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indexingResultOrEmpty(res))
}

// RemoveDocuments handles POST /indexes/{documentType}/documents/delete.
func (s *Server) RemoveDocuments(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.IDs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("Batch size %d exceeds maximum of %d", len(req.IDs), maxBatchSize))
		return
	}

	docs := make([]model.IndexDocument, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id == "" {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Document id must not be empty")
			return
		}
		docs = append(docs, model.IndexDocument{ID: id})
	}

	res, err := s.provider.Remove(r.Context(), gochi.URLParam(r, "documentType"), docs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indexingResultOrEmpty(res))
}

// Search handles POST /indexes/{documentType}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := searchRequestFromDTO(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	resp, err := s.provider.Search(r.Context(), gochi.URLParam(r, "documentType"), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DashboardRedirect handles GET /api/algolia-search/redirect.
func (s *Server) DashboardRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, DashboardURL, http.StatusFound)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := StatusHealthy
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			checks[name] = StatusUnhealthy
			status = StatusUnhealthy
			continue
		}
		checks[name] = StatusHealthy
	}

	httpStatus := http.StatusOK
	if status != StatusHealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: status, Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// handleDomainError maps provider errors to HTTP responses.
// It logs through the request-scoped logger placed in the context by the router.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// invalidArgumentHandler echoes the argument error, which names only caller input.
func invalidArgumentHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidArgument) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	return true
}

func indexingResultOrEmpty(res *model.IndexingResult) *model.IndexingResult {
	if res == nil || res.Items == nil {
		return &model.IndexingResult{Items: []model.IndexingResultItem{}}
	}
	return res
}
