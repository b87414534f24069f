package handler

import (
	"errors"
	"io"
	"net/http"

	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
	"krishiconnect/internal/service"
	"krishiconnect/internal/transport/http/middleware"
)

// ReportHandler serves both the reporter-facing and the admin report routes.
type ReportHandler struct {
	reportService     *service.ReportService
	moderationService *service.ModerationService
}

func NewReportHandler(reportService *service.ReportService, moderationService *service.ModerationService) *ReportHandler {
	return &ReportHandler{
		reportService:     reportService,
		moderationService: moderationService,
	}
}

// Create handles POST /reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateReportRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	report, err := h.reportService.Create(r.Context(), req, identity.Actor)
	if err != nil {
		writeDomainError(w, err, "Failed to file report")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, report)
}

// List handles GET /admin/reports?status=
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *model.ReportStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := model.ReportStatus(s)
		if !st.Valid() {
			httputil.WriteBadRequest(w, "Invalid status filter")
			return
		}
		status = &st
	}

	httputil.WriteJSON(w, http.StatusOK, h.reportService.List(r.Context(), status))
}

// Stats handles GET /admin/reports/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.reportService.Stats(r.Context()))
}

// GetByID handles GET /admin/reports/:id
func (h *ReportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.Get(r.Context(), chiParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "Failed to get report")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

// Accept handles POST /admin/reports/:id/accept
// Body {"delete_content": bool} is optional; content is removed by default.
func (h *ReportHandler) Accept(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.AcceptReportRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeValidationError(w, err)
		return
	}
	deleteContent := req.DeleteContent == nil || *req.DeleteContent

	report, err := h.moderationService.Accept(r.Context(), chiParam(r, "id"), deleteContent, identity.Actor)
	if err != nil {
		writeDomainError(w, err, "Failed to accept report")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

// Decline handles POST /admin/reports/:id/decline
func (h *ReportHandler) Decline(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	report, err := h.moderationService.Decline(r.Context(), chiParam(r, "id"), identity.Actor)
	if err != nil {
		writeDomainError(w, err, "Failed to decline report")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}
