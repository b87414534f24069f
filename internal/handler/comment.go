package handler

import (
	"net/http"

	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
	"krishiconnect/internal/service"
	"krishiconnect/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService    *service.CommentService
	engagementService *service.EngagementService
}

func NewCommentHandler(commentService *service.CommentService, engagementService *service.EngagementService) *CommentHandler {
	return &CommentHandler{
		commentService:    commentService,
		engagementService: engagementService,
	}
}

// List handles GET /posts/:id/comments
// An unknown post yields an empty list.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := int64Param(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	comments := h.commentService.List(r.Context(), postID, middleware.GetActorFromContext(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, comments)
}

// Create handles POST /posts/:id/comments
// Creates a comment on a post for the authenticated user.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := int64Param(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.CreateCommentRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	comment, err := h.commentService.Create(r.Context(), postID, identity.Author, req)
	if err != nil {
		writeDomainError(w, err, "Failed to create comment")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// Reply handles POST /posts/:id/comments/:commentId/replies
func (h *CommentHandler) Reply(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := int64Param(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	commentID, ok := int64Param(r, "commentId")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	var req model.CreateCommentRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	reply, err := h.commentService.Reply(r.Context(), postID, commentID, identity.Author, req)
	if err != nil {
		writeDomainError(w, err, "Failed to create reply")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, reply)
}

// Delete handles DELETE /posts/:id/comments/:commentId
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := int64Param(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	commentID, ok := int64Param(r, "commentId")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(r.Context(), postID, commentID, identity.Actor.ID); err != nil {
		writeDomainError(w, err, "Failed to delete comment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	})
}

// ToggleLike handles POST /posts/:id/comments/:commentId/like
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := int64Param(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	commentID, ok := int64Param(r, "commentId")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	comment, err := h.engagementService.ToggleCommentLike(r.Context(), postID, commentID, identity.Actor)
	if err != nil {
		writeDomainError(w, err, "Failed to like comment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}
