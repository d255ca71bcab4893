package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"melodex/internal/cache"
	"melodex/internal/config"
	"melodex/internal/database"
	"melodex/internal/middleware"
	"melodex/internal/modules/artwork"
	"melodex/internal/modules/reconcile"
	jwtsvc "melodex/internal/pkg/jwt"
	"melodex/internal/realtime"
	"melodex/internal/repository"
	"melodex/internal/scheduler"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.ProbeTimeout)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Distributed cache deletes are best-effort, so keep going.
		log.Printf("redis not reachable at %s: %v", cfg.RedisAddr, err)
	}
	cancelPing()
	remote := cache.NewCacheService(rdb)

	images, err := cache.NewImageCache(cfg.ImageCacheSize)
	if err != nil {
		log.Fatal(err)
	}
	invalidator := cache.NewInvalidator(images, remote)

	limiter := realtime.NewLimiter(cfg.RateLimit, cfg.RateWindow)
	hub := realtime.NewHub(limiter)

	artistRepo := repository.NewArtistRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	assetRepo := repository.NewCustomAssetRepository(db)
	logRepo := repository.NewEnrichmentLogRepository(db)

	paths := artwork.NewPathResolver(cfg.StorageRoot, cfg.CoverAlongsideAudio)
	fetcher := artwork.NewFetcher(cfg.DownloadTimeout)

	artworkService := artwork.NewService(
		artistRepo,
		albumRepo,
		assetRepo,
		logRepo,
		fetcher,
		paths,
		invalidator,
		hub,
	)
	artworkHandler := artwork.NewHandler(artworkService, images)

	reconcileService := reconcile.NewService(artistRepo, albumRepo, assetRepo, paths)
	reconcileHandler := reconcile.NewHandler(reconcileService)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	wsHandler := realtime.NewWSHandler(hub, j)

	sched := scheduler.New(limiter, reconcileService)
	if err := sched.RegisterJobs(cfg.SweepInterval, cfg.ReconcileCron, cfg.ReconcileApply); err != nil {
		log.Fatal(err)
	}
	sched.Start()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/ws", wsHandler.HandleWebSocket)

	v1 := r.Group("/api/v1")
	{
		// public
		artworkHandler.RegisterRoutes(v1)

		// protected (mutating endpoints)
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			artworkHandler.RegisterProtectedRoutes(protected)
			reconcileHandler.RegisterRoutes(protected.Group("/admin"))
		}
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
