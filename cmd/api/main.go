package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/config"
	"github.com/campmarket/campmarket-api/internal/domain/adminpanel"
	"github.com/campmarket/campmarket-api/internal/domain/announcement"
	"github.com/campmarket/campmarket-api/internal/domain/auth"
	"github.com/campmarket/campmarket-api/internal/domain/booth"
	"github.com/campmarket/campmarket-api/internal/domain/ledger"
	"github.com/campmarket/campmarket-api/internal/domain/market"
	"github.com/campmarket/campmarket-api/internal/domain/notification"
	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/pkg/database"
	"github.com/campmarket/campmarket-api/internal/pkg/logger"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/token"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting CampMarket API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	tokenService := token.NewService(cfg.JWTSecret, cfg.SessionStaleness)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	marketRepo := market.NewRepository(db)
	announcementRepo := announcement.NewRepository(db)
	boothRepo := booth.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	adminRepo := adminpanel.NewRepository(db)

	// ---------- Stores ----------
	sessionStore := auth.NewSessionStore(redisClient)
	resolver := auth.NewResolver(userRepo, redisClient)
	switchStore := adminpanel.NewSwitchStore(redisClient)

	// ---------- WebSocket hub ----------
	marketHub := market.NewHub(redisClient)
	go marketHub.Run()

	// ---------- Services ----------
	notificationService := notification.NewService(notificationRepo, cfg.NotificationTTL)
	authService := auth.NewService(userRepo, tokenService, sessionStore, resolver, cfg.SessionStaleness)

	adminService := adminpanel.NewService(adminRepo, userRepo, switchStore,
		&marketStateAdapter{repo: marketRepo}, announcementRepo, resolver, cfg.Env)

	marketService := market.NewService(marketRepo, marketHub, adminService,
		ledgerRepo, boothRepo, announcementRepo, &balanceWiper{repo: userRepo})
	ledgerService := ledger.NewService(ledgerRepo, userRepo, marketService, notificationService)
	announcementService := announcement.NewService(announcementRepo, userRepo, notificationService, adminService)

	boothSigner := booth.NewSigner(cfg.BoothSecret)
	boothService := booth.NewService(boothRepo, userRepo, ledgerRepo, boothSigner, notificationService, adminService)

	// ---------- Background jobs ----------
	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	sweeper := notification.NewSweeper(notificationRepo, cfg.NotificationSweepInterval)
	go sweeper.Start(jobCtx)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	ledgerHandler := ledger.NewHandler(ledgerService)
	marketHandler := market.NewHandler(marketService, marketHub, cfg.AllowedOrigins)
	announcementHandler := announcement.NewHandler(announcementService)
	boothHandler := booth.NewHandler(boothService)
	notificationHandler := notification.NewHandler(notificationService)
	adminHandler := adminpanel.NewHandler(adminService)

	authMiddleware := middleware.Auth(tokenService, &sessionResolverAdapter{service: authService}, resolver)
	guards := &middleware.Guards{Snapshots: resolver, Switches: switchStore}

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket ticker (token passed as query parameter)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		if t := r.URL.Query().Get("token"); t != "" {
			r.Header.Set("Authorization", "Bearer "+t)
		}
		authMiddleware(http.HandlerFunc(marketHandler.Ticker)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/ledger", ledgerHandler.Routes(authMiddleware, guards))
		r.Mount("/points", ledgerHandler.PointsRoutes(authMiddleware, guards))
		r.Mount("/market", marketHandler.Routes(authMiddleware, guards))
		r.Mount("/announcements", announcementHandler.Routes(authMiddleware, guards))
		r.Mount("/booth", boothHandler.Routes(authMiddleware, guards))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/admin", adminHandler.Routes(authMiddleware, guards))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopJobs()
	marketHub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// Adapter implementations to bridge interface mismatches

// sessionResolverAdapter adapts auth.Service to middleware.SessionResolver.
// Stale and missing sessions both resolve to (nil, nil): treated as absent.
type sessionResolverAdapter struct {
	service *auth.Service
}

func (a *sessionResolverAdapter) ResolveSession(ctx context.Context, sessionID uuid.UUID) (*middleware.Identity, error) {
	session, err := a.service.ResolveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrSessionStale) {
			return nil, nil
		}
		return nil, err
	}
	return &middleware.Identity{
		UserID:    session.UserID,
		SessionID: session.ID,
		Role:      session.Role,
	}, nil
}

// marketStateAdapter adapts market.Repository to adminpanel.MarketSource
type marketStateAdapter struct {
	repo market.Repository
}

func (a *marketStateAdapter) Status(ctx context.Context) (*market.State, error) {
	return a.repo.GetState(ctx)
}

// balanceWiper adapts user.Repository to market.DataWiper for full resets
type balanceWiper struct {
	repo user.Repository
}

func (a *balanceWiper) DeleteAll(ctx context.Context) error {
	return a.repo.ResetBalances(ctx)
}
