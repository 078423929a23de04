package handler

import (
	"net/http"

	"github.com/campdir/backend/internal/domain"
	"github.com/campdir/backend/spec"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}

// ListCareers handles GET /careers: the closed list camps can be browsed by.
func (s *Server) ListCareers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse[[]domain.Career]{Data: domain.Careers})
}
