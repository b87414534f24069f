package handler

import (
	"net/http"
	"strconv"

	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
	"krishiconnect/internal/service"
	"krishiconnect/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed handles GET /feed
// Returns a page of the per-kind feed.
//
// Query params:
//   - kind: optional, post kind or "all" (default)
//   - cursor: optional, compound cursor for pagination (format: "id:timestamp")
//   - limit: optional, number of posts per page (default 10, max 50)
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var cursor *string
	if c := q.Get("cursor"); c != "" {
		cursor = &c
	}

	limit := service.FeedDefaultLimit
	if l := q.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	feed, err := h.feedService.GetFeed(r.Context(), model.PostKind(q.Get("kind")),
		middleware.GetActorFromContext(r.Context()), cursor, limit)
	if err != nil {
		writeDomainError(w, err, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feed)
}
