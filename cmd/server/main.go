package main

import (
	"log"
	"log/slog"
	"os"

	"analytics_backend/internal/app/router"
	buysadapters "analytics_backend/internal/feature/buys/adapters"
	buyshandler "analytics_backend/internal/feature/buys/transport/handler"
	buysusecase "analytics_backend/internal/feature/buys/usecase"
	refundsadapters "analytics_backend/internal/feature/refunds/adapters"
	refundshandler "analytics_backend/internal/feature/refunds/transport/handler"
	refundsusecase "analytics_backend/internal/feature/refunds/usecase"
	usersadapters "analytics_backend/internal/feature/users/adapters"
	usershandler "analytics_backend/internal/feature/users/transport/handler"
	usersusecase "analytics_backend/internal/feature/users/usecase"
	"analytics_backend/internal/platform/config"
	"analytics_backend/internal/platform/db"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	conn, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatalf("database unavailable: %v", err)
	}

	// Repository
	purchaseRepo := buysadapters.NewPurchaseRepository(conn)
	priceRepo := buysadapters.NewPriceRepository(conn)
	refundRepo := refundsadapters.NewRefundRepository(conn)
	ledgerRepo := usersadapters.NewLedgerRepository(conn)

	// Usecase
	buysUC := buysusecase.NewBuysUsecase(purchaseRepo, priceRepo)
	refundsUC := refundsusecase.NewRefundsUsecase(refundRepo)
	usersUC := usersusecase.NewUsersUsecase(ledgerRepo)

	// Handler
	buysH := buyshandler.NewBuysHandler(buysUC)
	refundsH := refundshandler.NewRefundsHandler(refundsUC)
	usersH := usershandler.NewUsersHandler(usersUC)

	r := router.NewRouter(buysH, refundsH, usersH)

	slog.Info("starting server", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
