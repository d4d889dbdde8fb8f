package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/skillmart/backend/api/handler"
	"github.com/skillmart/backend/internal/config"
	"github.com/skillmart/backend/internal/infrastructure/buffer"
	"github.com/skillmart/backend/internal/infrastructure/monitor"
	pgInfra "github.com/skillmart/backend/internal/infrastructure/postgres"
	redisInfra "github.com/skillmart/backend/internal/infrastructure/redis"
	"github.com/skillmart/backend/internal/middleware"
	"github.com/skillmart/backend/internal/router"
	"github.com/skillmart/backend/internal/services"
	"github.com/skillmart/backend/internal/services/lifecycle"
	"github.com/skillmart/backend/pkg/httpcontext"
	"github.com/skillmart/backend/pkg/logger"
	"github.com/skillmart/backend/repository/postgres"
	redisRepo "github.com/skillmart/backend/repository/redis"
	adminUC "github.com/skillmart/backend/usecase/admin"
	auditlogUC "github.com/skillmart/backend/usecase/auditlog"
	authUC "github.com/skillmart/backend/usecase/auth"
	catalogUC "github.com/skillmart/backend/usecase/catalog"
	"github.com/skillmart/backend/usecase/guard"
	profileUC "github.com/skillmart/backend/usecase/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	spillStore, err := buffer.Open(cfg.Audit.SpillPath, "audit_spill")
	if err != nil {
		zapLogger.Fatal("failed to open audit spill store", zap.Error(err))
	}
	manager.Register("audit_spill", func(ctx context.Context) error {
		return spillStore.Close()
	})

	mon := monitor.New(pool, redisClient, spillStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	courseRepo := postgres.NewCourseRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Auth.SessionTTL)

	recorder := services.NewAuditRecorder(auditRepo, spillStore, mon, zapLogger, services.RecorderConfig{
		QueueSize:     cfg.Audit.QueueSize,
		SyncInterval:  cfg.Audit.SyncInterval,
		MaxRetries:    cfg.Audit.MaxRetry,
		RetentionDays: cfg.Audit.RetentionDays,
	})
	recorder.Start()
	manager.Register("audit_recorder", func(ctx context.Context) error {
		recorder.Stop(ctx)
		return nil
	})

	secret := []byte(cfg.Auth.Secret)
	roleGuard := guard.New(userRepo, recorder, zapLogger)

	authUseCase := authUC.New(userRepo, sessionRepo, recorder, zapLogger, secret, cfg.Auth.SessionTTL)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	catalogUseCase := catalogUC.New(productRepo, orderRepo, courseRepo, recorder, zapLogger)
	auditlogUseCase := auditlogUC.New(auditRepo, zapLogger)
	adminUseCase := adminUC.New(userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, secret),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Catalog: apiHandler.NewCatalogHandler(catalogUseCase, roleGuard, ctxAdapter, zapLogger),
		Admin:   apiHandler.NewAdminHandler(adminUseCase, auditlogUseCase, roleGuard, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	gate := middleware.AuthGate(middleware.GateConfig{
		Secret:    secret,
		Patterns:  cfg.Auth.GatePatterns,
		LoginPath: cfg.Auth.LoginPath,
	}, zapLogger)

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      gate(r.Handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
