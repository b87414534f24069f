package handler

import (
	"net/http"

	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
	"krishiconnect/internal/service"
	"krishiconnect/internal/transport/http/middleware"
)

type PostHandler struct {
	postService       *service.PostService
	engagementService *service.EngagementService
}

func NewPostHandler(postService *service.PostService, engagementService *service.EngagementService) *PostHandler {
	return &PostHandler{
		postService:       postService,
		engagementService: engagementService,
	}
}

// List handles GET /posts?kind=
// Returns every post of the kind ("all" by default), newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := model.PostKind(r.URL.Query().Get("kind"))

	posts, err := h.postService.List(r.Context(), kind, middleware.GetActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err, "Failed to list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// GetByID handles GET /posts/:id
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID, ok := int64Param(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.postService.GetByID(r.Context(), postID, middleware.GetActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Create handles POST /posts
// Creates a new post for the authenticated user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.postService.Create(r.Context(), identity.Author, req)
	if err != nil {
		writeDomainError(w, err, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// Update handles PATCH /posts/:id
// Only the author can edit; counters are never patchable.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var patch model.PostPatch
	if err := httputil.DecodeAndValidate(r, &patch); err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.postService.Update(r.Context(), postID, identity.Actor.ID, patch)
	if err != nil {
		writeDomainError(w, err, "Failed to update post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /posts/:id
// Deletes a post and its comments (only owner can delete).
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.postService.Delete(r.Context(), postID, identity.Actor.ID); err != nil {
		writeDomainError(w, err, "Failed to delete post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}

// ToggleLike handles POST /posts/:id/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
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

	post, err := h.engagementService.ToggleLike(r.Context(), postID, identity.Actor)
	if err != nil {
		writeDomainError(w, err, "Failed to like post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Share handles POST /posts/:id/share
func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
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

	post, err := h.engagementService.Share(r.Context(), postID, identity.Actor)
	if err != nil {
		writeDomainError(w, err, "Failed to share post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}
