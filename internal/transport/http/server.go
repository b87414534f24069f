package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"krishiconnect/internal/cache"
	"krishiconnect/internal/config"
	"krishiconnect/internal/database"
	"krishiconnect/internal/handler"
	"krishiconnect/internal/queue"
	"krishiconnect/internal/redis"
	"krishiconnect/internal/repository"
	"krishiconnect/internal/service"
	"krishiconnect/internal/worker"
)

// Run loads configuration, wires every component and serves until SIGINT/SIGTERM.
// Redis, Postgres and R2 are optional; each missing piece only disables its feature.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Core stores
	store := repository.NewContentStore(time.Now)
	registry := repository.NewReportRegistry(time.Now)

	// 2. Optional Redis: event stream and kind feeds
	var (
		redisClient *goredis.Client
		publisher   queue.Publisher
		feedCache   cache.FeedCache
	)
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, events and feed cache disabled")
		} else {
			redisClient = client
			defer redisClient.Close()
			publisher = queue.NewPublisher(redisClient, cfg.StreamMaxLen)
			feedCache = cache.NewFeedCache(redisClient)
			log.Info().Msg("Connected to Redis")
		}
	}

	// 3. Optional Postgres: moderation decision archive
	var archive repository.ReportArchive
	if cfg.DatabaseEnabled() {
		db, err := database.Connect(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Database unavailable, report archive disabled")
		} else {
			defer db.Close()
			if err := database.EnsureSchema(ctx, db); err != nil {
				return fmt.Errorf("failed to prepare schema: %w", err)
			}
			archive = repository.NewReportArchive(db)
		}
	}

	// 4. Optional R2: presigned uploads
	var mediaService *service.MediaService
	if cfg.MediaEnabled() {
		ms, err := service.NewMediaService(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("R2 client setup failed, media uploads disabled")
		} else {
			mediaService = ms
		}
	}

	// 5. Services
	postService := service.NewPostService(store, publisher)
	commentService := service.NewCommentService(store)
	engagementService := service.NewEngagementService(store)
	reportService := service.NewReportService(registry, store, publisher)
	moderationService := service.NewModerationService(registry, store, publisher)
	feedService := service.NewFeedService(feedCache, store)

	// 6. Background workers
	if redisClient != nil {
		eventHandler := worker.NewHandler(feedCache, registry)
		if archive != nil {
			eventHandler.SetArchive(archive)
		}
		managerCfg := worker.DefaultManagerConfig()
		managerCfg.WorkerCount = cfg.WorkerCount
		manager := worker.NewManager(queue.NewConsumer(redisClient), eventHandler, managerCfg)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	}

	backlog, err := worker.NewBacklogJob(registry, cfg.BacklogCron)
	if err != nil {
		return err
	}
	backlog.Start()
	defer backlog.Stop()

	// 7. HTTP
	router := NewRouter(RouterConfig{
		PostHandler:    handler.NewPostHandler(postService, engagementService),
		CommentHandler: handler.NewCommentHandler(commentService, engagementService),
		FeedHandler:    handler.NewFeedHandler(feedService),
		ReportHandler:  handler.NewReportHandler(reportService, moderationService),
		MediaHandler:   handler.NewMediaHandler(mediaService),
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
