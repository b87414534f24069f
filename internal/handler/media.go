package handler

import (
	"net/http"

	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
	"krishiconnect/internal/service"
	"krishiconnect/internal/transport/http/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler accepts a nil service; requests then get 503.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// PresignPostUpload handles POST /media/posts/presign
// Returns a presigned URL for uploading a post image directly to R2.
func (h *MediaHandler) PresignPostUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB is plenty for JSON
	var req model.PresignImageRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.mediaService.PresignPostImage(r.Context(), identity.Actor.ID, req)
	if err != nil {
		writeDomainError(w, err, "Failed to create upload URL")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}
