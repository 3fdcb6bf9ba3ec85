package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/api"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/config"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/jobs"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/logger"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/middleware"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/quote"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	_, syncLogger, err := logger.Init(cfg.AppEnv, cfg.AppLogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer syncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zap.L().Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		zap.L().Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	if err := repository.EnsureIndexes(ctx, client.Database(cfg.MongoDB)); err != nil {
		zap.L().Fatal("Failed to create indexes", zap.Error(err))
	}

	db := cfg.MongoDB
	userRepo := repository.NewUserRepository(client, db, repository.UsersCollection)
	priceRepo := repository.NewPriceRepository(client, db, repository.PricesCollection)
	investmentRepo := repository.NewInvestmentRepository(client, db, repository.InvestmentsCollection)
	planRepo := repository.NewPlanRepository(client, db, repository.PlansCollection)
	tradeRepo := repository.NewTradeRepository(client, db, repository.TradesCollection)
	adminRepo := repository.NewAdminRepository(client, db, repository.AdminsCollection)
	tokenRepo := repository.NewRefreshTokenRepository(client, db, repository.RefreshTokensCollection)
	transactionRepo := repository.NewTransactionRepository(client, db, repository.TransactionsCollection)
	logRepo := repository.NewLogRepository(client, db, repository.LogsCollection)

	markerRepo := repository.NewMarkerRepository(client, db, repository.MarkersCollection)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			zap.L().Fatal("Failed to ping Redis", zap.Error(err))
		}
		markerRepo = repository.NewRedisMarkerRepository(rdb, "genesisio:marker:")
		zap.L().Info("Job markers stored in Redis", zap.String("addr", cfg.RedisAddr))
	}

	if err := config.EnsureAdminUser(ctx, adminRepo, cfg); err != nil {
		zap.L().Fatal("Failed to ensure admin user", zap.Error(err))
	}

	hub := ws.NewHub()
	go hub.Run(ctx)
	wsHandler := ws.NewWebSocketHandler(hub)

	quotes := quote.NewClient(cfg.QuoteAPIURL, cfg.QuoteAPIKey, cfg.QuoteTimeout)
	priceService := service.NewPriceService(quotes, priceRepo, markerRepo, hub)
	walletService := service.NewWalletValuationService(userRepo, priceRepo, markerRepo, cfg.PriceMaxAge)
	investmentService := service.NewInvestmentService(investmentRepo, planRepo, userRepo)
	settlementService := service.NewSettlementService(userRepo)
	authService := service.NewAuthService(adminRepo, tokenRepo, middleware.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL), cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo)
	tradeService := service.NewTradeService(tradeRepo, userRepo)
	transactionService := service.NewTransactionService(transactionRepo, userRepo)
	logService := service.NewLogService(logRepo)

	loc, err := cfg.Location()
	if err != nil {
		zap.L().Fatal("Invalid timezone", zap.Error(err))
	}
	scheduler := jobs.NewScheduler(loc)
	tasks := jobs.Tasks(jobs.Services{
		Prices:      priceService,
		Wallets:     walletService,
		Investments: investmentService,
		Settlement:  settlementService,
		Auth:        authService,
	})
	if err := jobs.RegisterAll(scheduler, cfg.Schedules(), tasks); err != nil {
		zap.L().Fatal("Failed to register jobs", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())

	api.SetupRoutes(r, cfg, api.Services{
		Auth:        authService,
		Prices:      priceService,
		Users:       userService,
		Investments: investmentService,
		Trades:      tradeService,
		Transaction: transactionService,
		Logs:        logService,
		Jobs:        scheduler,
	}, wsHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Starting server",
			zap.String("addr", srv.Addr),
			zap.String("swagger", cfg.BaseURL+"/swagger/index.html"),
			zap.String("ws", cfg.BaseURL+"/ws"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server shutdown failed", zap.Error(err))
	}
}
