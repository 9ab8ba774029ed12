package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/config"
	"github.com/jmcardoso/payplan/internal/database"
	payplanHttp "github.com/jmcardoso/payplan/internal/http"
	allocationHandler "github.com/jmcardoso/payplan/internal/http/allocation"
	invoiceHandler "github.com/jmcardoso/payplan/internal/http/invoice"
	rosterHandler "github.com/jmcardoso/payplan/internal/http/roster"
	"github.com/jmcardoso/payplan/internal/invoice"
	invoiceStore "github.com/jmcardoso/payplan/internal/invoice/store"
	"github.com/jmcardoso/payplan/internal/processor"
	"github.com/jmcardoso/payplan/internal/roster"
	rosterStore "github.com/jmcardoso/payplan/internal/roster/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	policy := allocation.RemainderFrontLoaded
	if cfg.Allocation.Remainder == "back" {
		policy = allocation.RemainderBackLoaded
	}

	var (
		invoiceService  = invoice.NewService(invoiceStore.New(db))
		rosterService   = roster.NewService(rosterStore.New(db))
		processorClient = processor.NewClient(cfg.Processor.URL, cfg.Processor.Token)
	)

	var (
		invoiceH      = invoiceHandler.NewHandler(invoiceService, cfg.Allocation.Currency)
		allocationH   = allocationHandler.NewHandler(invoiceService, processorClient, policy)
		participantsH = rosterHandler.NewHandler(rosterService)
	)

	router := payplanHttp.New(invoiceH, allocationH, participantsH, cfg.Auth.JWTSecret)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
