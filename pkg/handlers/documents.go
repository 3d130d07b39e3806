package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/auth"
	"github.com/vcisolabs/vciso-engine/pkg/services"
)

// AnalyzeDocumentRequest for POST /api/analyze-document
type AnalyzeDocumentRequest struct {
	DocumentContent string   `json:"document_content"`
	DocumentType    string   `json:"document_type"`
	CompanyID       string   `json:"company_id"`
	Frameworks      []string `json:"frameworks"`
}

// AnalyzeDocumentResponse for POST /api/analyze-document
type AnalyzeDocumentResponse struct {
	Summary           string   `json:"summary"`
	Confidence        float64  `json:"confidence"`
	FrameworkMappings []string `json:"framework_mappings"`
	Recommendations   []string `json:"recommendations"`
}

// DocumentHandler handles document analysis HTTP requests.
type DocumentHandler struct {
	completions services.CompletionService
	logger      *zap.Logger
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(completions services.CompletionService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		completions: completions,
		logger:      logger,
	}
}

// RegisterRoutes registers the document handler's routes on the given mux.
func (h *DocumentHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/analyze-document", authMiddleware.RequireAuth(h.Analyze))
}

// Analyze handles POST /api/analyze-document requests.
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.DocumentContent == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Document content is required")
		return
	}

	result, err := h.completions.AnalyzeDocument(r.Context(), req.DocumentContent, req.DocumentType, req.Frameworks)
	if err != nil {
		h.logger.Error("Document analysis failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "analysis_failed", "Failed to analyze document")
		return
	}

	resp := AnalyzeDocumentResponse{
		Summary:           result.Response,
		Confidence:        result.Confidence,
		FrameworkMappings: result.ReferencedFrameworks,
		Recommendations:   []string{},
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode analysis response", zap.Error(err))
	}
}
