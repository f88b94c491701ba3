package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"social-service/internal/auth"
	"social-service/internal/bot"
	"social-service/internal/config"
	"social-service/internal/db"
	"social-service/internal/handlers"
	"social-service/internal/middleware"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
	"social-service/internal/ws"
)

const serviceName = "social-service"

func main() {
	cfg, err := config.Load(os.Getenv("SOCIAL_CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	logger, err := buildLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		logger.Fatal("tracing setup failed", zap.Error(err))
	}

	database, err := db.Connect(cfg.Database.DSN, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	// Event publishers are optional: without a broker both fall back to noop.
	if cfg.AMQP.URL != "" {
		wsPublisher, err := observability.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.Warn("ws event publisher unavailable", zap.Error(err))
		} else {
			observability.SetPublisher(wsPublisher)
			defer wsPublisher.Close()
		}
	}
	auditPublisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	defer auditPublisher.Close()
	logger.Info("audit publisher ready",
		zap.String("mode", rabbitmq.PublisherMode(auditPublisher)),
		zap.String("noop_reason", rabbitmq.PublisherNoopReason(auditPublisher)))
	emitter := telemetry.NewAuditEmitter(auditPublisher, "audit.social", serviceName, cfg.Environment, logger)

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)

	userRepo := repositories.NewUserRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	botRepo := repositories.NewBotRepo(database)
	postRepo := repositories.NewPostRepo(database)
	productRepo := repositories.NewProductRepo(database)

	registry := ws.NewRegistry(logger)

	var (
		botSvc    *bot.Service
		responder ws.BotResponder
		scheduler *bot.Scheduler
	)
	if cfg.Bots.Enabled {
		botSvc = bot.NewService(userRepo, conversationRepo, messageRepo, botRepo, postRepo, productRepo,
			registry, bot.NewSource(), cfg.Bots, logger)
		responder = botSvc
		scheduler, err = bot.NewScheduler(botSvc, cfg.Bots, logger)
		if err != nil {
			logger.Fatal("bot scheduler setup failed", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logger.Info("bots disabled")
	}

	wsHandler := ws.NewHandler(registry, verifier, userRepo, conversationRepo, messageRepo, responder, logger)
	conversationHandler := handlers.NewConversationHandler(conversationRepo, userRepo)
	messageHandler := handlers.NewMessageHandler(conversationRepo, messageRepo, userRepo, registry, responder, logger)
	presenceHandler := handlers.NewPresenceHandler(registry)

	var provisioner handlers.BotProvisioner
	if botSvc != nil {
		provisioner = botSvc
	}
	botHandler := handlers.NewBotHandler(botRepo, provisioner)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(verifier)

	router.GET("/conversations", authMiddleware, conversationHandler.ListConversations)
	router.POST("/conversations/direct", authMiddleware, conversationHandler.StartDirect)
	router.POST("/conversations/group", authMiddleware, conversationHandler.CreateGroup)
	router.GET("/conversations/:conversation_id", authMiddleware, conversationHandler.GetConversation)
	router.POST("/conversations/:conversation_id/participants", authMiddleware, conversationHandler.AddParticipant)
	router.DELETE("/conversations/:conversation_id/participants/me", authMiddleware, conversationHandler.LeaveConversation)
	router.GET("/conversations/:conversation_id/messages", authMiddleware, messageHandler.ListMessages)
	router.POST("/conversations/:conversation_id/messages", authMiddleware, messageHandler.PostMessage)
	router.POST("/conversations/:conversation_id/read", authMiddleware, messageHandler.MarkRead)
	router.GET("/conversations/:conversation_id/typing", authMiddleware, presenceHandler.TypingUsers)
	router.DELETE("/messages/:message_id", authMiddleware, messageHandler.DeleteMessage)

	router.GET("/presence/online", authMiddleware, presenceHandler.OnlineUsers)
	router.GET("/presence/users/:user_id", authMiddleware, presenceHandler.UserStatus)

	router.GET("/bots", authMiddleware, botHandler.ListBots)
	router.POST("/bots", authMiddleware, botHandler.CreateBot)
	router.GET("/bots/stats", authMiddleware, botHandler.BotStats)
	router.GET("/bots/:bot_id", authMiddleware, botHandler.GetBot)
	router.PATCH("/bots/:bot_id", authMiddleware, botHandler.SetBotActive)
	router.GET("/bots/:bot_id/activities", authMiddleware, botHandler.ListBotActivities)

	router.GET("/ws", wsHandler.Handle)

	handlers.RegisterDebugRoutes(router, emitter, cfg.Environment == "development")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", zap.Error(err))
	}
}

func buildLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
