package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/LavaJover/shvark-ledger-service/internal/app/background"
	"github.com/LavaJover/shvark-ledger-service/internal/app/setup"
	"github.com/LavaJover/shvark-ledger-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/bnb"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/migrate"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}

	if err := migrate.RunMigrations(deps.DB, "migrations"); err != nil {
		slog.Error("migrations failed", "error", err.Error())
	}

	useCases, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	adminHandler := handlers.NewAdminHandler(
		useCases.FundingUsecase,
		useCases.WithdrawalUsecase,
		useCases.BatchUsecase,
		deps.Repositories.LedgerRepo,
		useCases.PaymentHandler,
	)

	r := gin.Default()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	adminHandler.RegisterRoutes(r)

	// Первичная загрузка курса до старта тикера
	if _, err := bnb.GetBnbUsdtRate(); err != nil {
		slog.Error("BNB/USDT initial rate fetch failed", "error", err.Error())
	}

	tasks := background.NewBackgroundTasks()
	tasks.StartAll(context.Background())

	addr := fmt.Sprintf("%s:%s", deps.Config.HTTPServer.Host, deps.Config.HTTPServer.Port)
	slog.Info("ledger service starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("failed to run http server: %v", err)
	}
}
