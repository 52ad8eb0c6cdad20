// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Marga-Ghale/charge-tracker/internal/api/handlers"
	"github.com/Marga-Ghale/charge-tracker/internal/api/middleware"
	"github.com/Marga-Ghale/charge-tracker/internal/api/realtime"
	"github.com/Marga-Ghale/charge-tracker/internal/config"
	"github.com/Marga-Ghale/charge-tracker/internal/cron"
	"github.com/Marga-Ghale/charge-tracker/internal/db"
	"github.com/Marga-Ghale/charge-tracker/internal/email"
	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/metrics"
	"github.com/Marga-Ghale/charge-tracker/internal/notification"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/seed"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
	"github.com/Marga-Ghale/charge-tracker/internal/socket"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	envErr := godotenv.Load()

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	logConf := logger.SetDefaults()
	logConf.Level = cfg.LogLevel
	logConf.Output = cfg.LogOutput
	logConf.Path = cfg.LogPath
	logger.MustInit(logConf)
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(cfg.DatabaseURL, "./internal/db/migrations"); err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL, db.PoolOptions{})
	if err != nil {
		logger.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()

	repos := repository.NewRepositories(pg.Pool)

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var cache service.Cache
	redisDB, err := db.NewRedisDB(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warnf("Failed to connect to Redis: %v (continuing without cache)", err)
	} else {
		defer redisDB.Close()
		cache = redisDB
	}

	// ============================================
	// Initialize Services
	// ============================================
	var authn service.Authenticator
	if cfg.LDAPURL != "" {
		authn = service.NewLDAPAuthenticator(cfg.LDAPURL, cfg.LDAPBaseDN)
		logger.Infof("LDAP login via %s", cfg.LDAPURL)
	} else {
		authn = service.NewLocalAuthenticator(repos.UserRepo)
		logger.Warn("LDAP_URL not set, using local password login")
	}

	services := service.NewServices(&service.ServiceDeps{
		Config:        cfg,
		Repos:         repos,
		Authenticator: authn,
		Cache:         cache,
	})

	if !cfg.IsProduction() {
		if err := seed.SeedData(ctx, repos, cfg.SeedPassword); err != nil {
			logger.Warnf("Seeding failed: %v", err)
		}
	}

	// ============================================
	// Initialize Email
	// ============================================
	emailSvc := email.NewService(&email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		UseTLS:   cfg.SMTPUseTLS,
		Domain:   cfg.EmailDomain,
	})
	if cfg.SMTPHost == "" {
		logger.Warn("Email not configured (SMTP_HOST not set)")
	}

	var queue email.Queue
	if redisDB != nil {
		aq, err := email.NewAsynqQueue(cfg.RedisURL, emailSvc, cfg.EmailWorkers, cfg.EmailRetries)
		if err == nil {
			err = aq.Start()
		}
		if err != nil {
			logger.Warnf("Email queue unavailable: %v (sending synchronously)", err)
		} else {
			queue = aq
		}
	}
	if queue == nil {
		queue = email.NewSyncQueue(emailSvc, cfg.EmailRetries)
	}
	defer queue.Close()

	// ============================================
	// Wire events: publisher, notifier, mailer
	// ============================================
	hub := socket.NewHub(nil)

	notifier := notification.NewService(repos.NotificationRepo, repos.UserRepo)
	notifier.SetPusher(hub)

	dispatcher := events.NewDispatcher(
		realtime.NewPublisher(hub, services, cache),
		notifier,
		notification.NewMailer(emailSvc, queue, repos.UserRepo, cfg.ClientURL),
	)

	router := realtime.NewRouter(services, dispatcher)
	hub.SetRouter(router)

	wsHandler := socket.NewHandler(hub, func(token string) (string, error) {
		user, err := services.Auth.ResolveToken(context.Background(), token)
		if err != nil {
			return "", err
		}
		return user.ID, nil
	}, cfg.AllowedOrigins)

	h := handlers.NewHandlers(services, router, dispatcher)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	scheduler := cron.NewScheduler(services.Notification, services.Invitation,
		cfg.NotificationRetentionDays, cfg.InvitationRetentionDays)
	if err := scheduler.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"cache":      status(redisDB != nil, "connected"),
			"email":      status(cfg.SMTPHost != "", "configured"),
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.SAMLEnabled() {
		samlHandler, err := handlers.NewSAMLHandler(ctx, cfg, services.Auth)
		if err != nil {
			logger.Fatalf("Failed to initialize SAML: %v", err)
		}
		samlHandler.Register(r)
		logger.Info("SAML login enabled")
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", middleware.AuthMiddleware(services.Auth), h.Auth.Me)
		}

		users := api.Group("/users")
		users.Use(middleware.AuthMiddleware(services.Auth))
		{
			users.GET("", h.User.List)
			users.GET("/:id", h.User.Get)
		}

		api.GET("/ws", wsHandler.HandleWebSocket)
		api.POST("/events/:event", h.Events.Handle)

		notifications := api.Group("/notifications")
		notifications.Use(middleware.AuthMiddleware(services.Auth))
		{
			notifications.GET("", h.Notification.List)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
			notifications.DELETE("/:id", h.Notification.Delete)
		}
	}

	r.NoRoute(handlers.SPA(cfg.ClientDir))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Server stopped with error: %v", err)
		return
	}
	logger.Info("Server exited")
}

func status(ok bool, up string) string {
	if ok {
		return up
	}
	return "disabled"
}
