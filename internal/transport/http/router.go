package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"krishiconnect/internal/handler"
	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
	authmw "krishiconnect/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	FeedHandler    *handler.FeedHandler
	ReportHandler  *handler.ReportHandler
	MediaHandler   *handler.MediaHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public read endpoints with optional authentication (viewer flags)
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/posts", cfg.PostHandler.List)
		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Get("/posts/{id}/comments", cfg.CommentHandler.List)
		r.Get("/feed", cfg.FeedHandler.GetFeed)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Post endpoints
		r.Post("/posts", cfg.PostHandler.Create)
		r.Patch("/posts/{id}", cfg.PostHandler.Update)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
		r.Post("/posts/{id}/like", cfg.PostHandler.ToggleLike)
		r.Post("/posts/{id}/share", cfg.PostHandler.Share)

		// Comment endpoints
		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
		r.Post("/posts/{id}/comments/{commentId}/replies", cfg.CommentHandler.Reply)
		r.Delete("/posts/{id}/comments/{commentId}", cfg.CommentHandler.Delete)
		r.Post("/posts/{id}/comments/{commentId}/like", cfg.CommentHandler.ToggleLike)

		r.Post("/reports", cfg.ReportHandler.Create)

		// Media endpoints (direct-to-R2 uploads)
		r.Post("/media/posts/presign", cfg.MediaHandler.PresignPostUpload)

		// Moderation
		r.Route("/admin/reports", func(r chi.Router) {
			r.Use(authmw.RequireRole(model.RoleAdmin))

			r.Get("/", cfg.ReportHandler.List)
			r.Get("/stats", cfg.ReportHandler.Stats)
			r.Get("/{id}", cfg.ReportHandler.GetByID)
			r.Post("/{id}/accept", cfg.ReportHandler.Accept)
			r.Post("/{id}/decline", cfg.ReportHandler.Decline)
		})
	})

	return r
}
