package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
)

// writeDomainError maps a core sentinel to its HTTP response.
// Anything unrecognised is logged and reported as a 500 with fallback.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrCommentNotFound):
		httputil.WriteNotFound(w, "Comment not found")
	case errors.Is(err, model.ErrReportNotFound):
		httputil.WriteNotFound(w, "Report not found")
	case errors.Is(err, model.ErrNotPostOwner):
		httputil.WriteForbidden(w, "You can only change your own posts")
	case errors.Is(err, model.ErrNotCommentOwner):
		httputil.WriteForbidden(w, "You can only delete your own comments")
	case errors.Is(err, model.ErrInvalidReason):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidReason, "Reason is not valid for this report type")
	case errors.Is(err, model.ErrAlreadyReviewed):
		httputil.WriteConflictWithCode(w, model.CodeAlreadyReviewed, "Report has already been reviewed")
	case errors.Is(err, model.ErrContentNotFound):
		httputil.WriteError(w, http.StatusNotFound, model.CodeContentNotFound, "Reported content not found")
	case errors.Is(err, model.ErrInvalidReportKind),
		errors.Is(err, model.ErrParentPostRequired),
		errors.Is(err, model.ErrInvalidPostKind),
		errors.Is(err, model.ErrContentRequired),
		errors.Is(err, model.ErrContentTooLong),
		errors.Is(err, model.ErrTooManyImages),
		errors.Is(err, model.ErrInvalidCursor):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 10MB limit")
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, webp")
	case errors.Is(err, model.ErrMediaNotConfigured):
		httputil.WriteUnavailable(w, "Media uploads are not configured")
	default:
		log.Error().Err(err).Msg("[Handler] " + fallback)
		httputil.WriteInternalError(w, fallback)
	}
}

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// int64Param reads a numeric chi URL parameter.
func int64Param(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeValidationError reports a body that failed decoding or tag validation.
func writeValidationError(w http.ResponseWriter, err error) {
	httputil.WriteBadRequestWithCode(w, model.CodeValidation, err.Error())
}
