package api

import (
	"net/http"
	"path/filepath"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/config"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/middleware"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services bundles what the HTTP surface needs from the service layer.
type Services struct {
	Auth        service.AuthService
	Prices      service.PriceService
	Users       service.UserService
	Investments service.InvestmentService
	Trades      service.TradeService
	Transaction service.TransactionService
	Logs        service.LogService
	Jobs        JobRunner
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, svc Services, wsHandler *ws.WebSocketHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	adminHandler := NewAdminHandler(svc.Auth, svc.Logs)
	priceHandler := NewPriceHandler(svc.Prices)
	userHandler := NewUserHandler(svc.Users, svc.Logs)
	investmentHandler := NewInvestmentHandler(svc.Investments, svc.Logs)
	tradeHandler := NewTradeHandler(svc.Trades, svc.Logs)
	transactionHandler := NewTransactionHandler(svc.Transaction, svc.Logs)
	logHandler := NewLogHandler(svc.Logs)
	jobHandler := NewJobHandler(svc.Jobs, svc.Logs)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.json")))
	r.StaticFile("/docs/swagger.json", filepath.Join("docs", "swagger.json"))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/admin/login", adminHandler.AdminLogin)
		v1.POST("/admin/refresh", adminHandler.Refresh)
		v1.POST("/admin/logout", adminHandler.Logout)

		admin := v1.Group("/admin").Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))
		{
			admin.GET("/prices", priceHandler.GetPrices)
			admin.GET("/prices/:asset", priceHandler.GetPrice)

			admin.GET("/jobs", jobHandler.ListJobs)
			admin.POST("/jobs/:name/run", jobHandler.RunJob)

			admin.GET("/users", userHandler.GetAllUsers)
			admin.GET("/users/:id", userHandler.GetUser)
			admin.PUT("/users/:id/wallet", userHandler.AdjustWallet)

			admin.POST("/plans", investmentHandler.CreatePlan)
			admin.GET("/plans", investmentHandler.GetAllPlans)
			admin.POST("/investments", investmentHandler.CreateInvestment)
			admin.GET("/investments", investmentHandler.GetInvestments)
			admin.GET("/investments/:id", investmentHandler.GetInvestment)
			admin.PUT("/investments/:id/status", investmentHandler.UpdateInvestmentStatus)

			admin.POST("/trades", tradeHandler.CreateTrade)
			admin.GET("/trades", tradeHandler.GetTrades)
			admin.GET("/trades/:id", tradeHandler.GetTrade)
			admin.PUT("/trades/:id/close", tradeHandler.CloseTrade)

			admin.POST("/transactions", transactionHandler.CreateTransaction)
			admin.GET("/transactions", transactionHandler.GetTransactions)
			admin.GET("/transactions/:id", transactionHandler.GetTransactionByID)
			admin.PUT("/transactions/:id/review", transactionHandler.ReviewTransaction)

			admin.GET("/logs", logHandler.GetAllLogs)
			admin.GET("/logs/admin/:admin_id", logHandler.GetLogsByAdmin)
		}
	}

	r.GET("/ws", wsHandler.HandleConnection)
}
