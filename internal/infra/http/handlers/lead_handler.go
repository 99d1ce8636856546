package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/lead-engine/internal/infra/http/middleware"
	"github.com/xavierca1/lead-engine/internal/usecase"
	"go.uber.org/zap"
)

const (
	uploadFormField       = "file"
	DefaultMaxUploadBytes = 10 << 20
)

type LeadHandler struct {
	UploadUC       *usecase.UploadLeadsUseCase
	ListUC         *usecase.ListLeadsUseCase
	DetailUC       *usecase.GetLeadDetailUseCase
	ClearUC        *usecase.ClearLeadsUseCase
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func NewLeadHandler(
	uploadUC *usecase.UploadLeadsUseCase,
	listUC *usecase.ListLeadsUseCase,
	detailUC *usecase.GetLeadDetailUseCase,
	clearUC *usecase.ClearLeadsUseCase,
	maxUploadBytes int64,
	logger *zap.Logger,
) *LeadHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &LeadHandler{
		UploadUC:       uploadUC,
		ListUC:         listUC,
		DetailUC:       detailUC,
		ClearUC:        clearUC,
		MaxUploadBytes: maxUploadBytes,
		Logger:         logger.Named("leads"),
	}
}

// Upload handles POST /api/leads/upload (multipart, field "file").
func (h *LeadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	file, _, err := r.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "upload exceeds size limit")
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	output, err := h.UploadUC.Execute(r.Context(), file)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}

	for category, n := range output.Categories {
		middleware.RecordLeadsIngested(string(category), n)
	}
	middleware.RecordRowsRejected(output.Rejected)

	writeJSON(w, http.StatusOK, output)
}

// List handles GET /api/leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ListUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Detail handles GET /api/leads/{id}.
func (h *LeadHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ID", "lead id is required")
		return
	}

	output, err := h.DetailUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}

	middleware.RecordOutreachGenerated(output.AIMessages.Fallback, h.DetailUC.Generator.Enabled())
	writeJSON(w, http.StatusOK, output)
}

// Clear handles DELETE /api/leads.
func (h *LeadHandler) Clear(w http.ResponseWriter, r *http.Request) {
	output, err := h.ClearUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}
