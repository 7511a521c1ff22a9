package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfcordoba/billetera/internal/api/handlers"
	"github.com/jfcordoba/billetera/internal/api/middleware"
	"github.com/jfcordoba/billetera/internal/config"
	"github.com/jfcordoba/billetera/internal/database"
	"github.com/jfcordoba/billetera/internal/logger"
	"github.com/jfcordoba/billetera/internal/rates"
	"github.com/jfcordoba/billetera/internal/repository"
	"github.com/jfcordoba/billetera/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel)

	if cfg.DatabaseURI == "" {
		log.Fatal().Msg("DATABASE_URI is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Database migrations completed")

	trmClient := rates.NewClient(cfg.TRMURL, cfg.TRMFetchTimeout)
	rateCache := rates.NewCache(trmClient, cfg.TRMCacheTTL, log)

	store := repository.NewStore(db)
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	accountService := service.NewAccountService(store, log)
	transferService := service.NewTransferService(store, rateCache, log)

	accountsHandler := handlers.NewAccountsHandler(accountRepo, accountService, log)
	transfersHandler := handlers.NewTransfersHandler(transferService, log)
	transactionsHandler := handlers.NewTransactionsHandler(transactionRepo, log)
	categoriesHandler := handlers.NewCategoriesHandler(categoryRepo, log)
	ratesHandler := handlers.NewRatesHandler(rateCache, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/accounts", accountsHandler.List)
	mux.HandleFunc("POST /api/accounts", accountsHandler.Create)
	mux.HandleFunc("GET /api/accounts/{id}", accountsHandler.Get)
	mux.HandleFunc("PATCH /api/accounts/{id}", accountsHandler.Update)
	mux.HandleFunc("DELETE /api/accounts/{id}", accountsHandler.Delete)
	mux.HandleFunc("GET /api/accounts/{id}/transactions", transactionsHandler.ListByAccount)
	mux.HandleFunc("POST /api/transactions", transactionsHandler.Create)
	mux.HandleFunc("GET /api/transactions/{id}", transactionsHandler.Get)
	mux.HandleFunc("PUT /api/transactions/{id}", transactionsHandler.Update)
	mux.HandleFunc("DELETE /api/transactions/{id}", transactionsHandler.Delete)
	mux.HandleFunc("POST /api/transfers", transfersHandler.Create)
	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("POST /api/categories", categoriesHandler.Create)
	mux.HandleFunc("PUT /api/categories/{id}", categoriesHandler.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", categoriesHandler.Delete)
	mux.HandleFunc("GET /api/rates/current", ratesHandler.Current)

	handler := middleware.Logger(log)(middleware.Recovery(log)(middleware.CORS(mux)))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting server...")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}
