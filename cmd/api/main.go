package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/pennywise/pennywise-go/internal/config"
	"github.com/pennywise/pennywise-go/internal/handler"
	"github.com/pennywise/pennywise-go/internal/middleware"
	"github.com/pennywise/pennywise-go/internal/repository"
	"github.com/pennywise/pennywise-go/internal/service"
	"github.com/pennywise/pennywise-go/internal/summarizer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.RunMigrations(db); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, service.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessExpiry:  cfg.AccessTokenExpiry,
		RefreshExpiry: cfg.RefreshTokenExpiry,
	})
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo)
	reportService := service.NewReportService(transactionRepo, summarizer.New(cfg.GeminiAPIKey, cfg.GeminiModel))
	noteService := service.NewNoteService(noteRepo)
	userService := service.NewUserService(userRepo, transactionService, noteService)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	transactionHandler := handler.NewTransactionHandler(transactionService, reportService)
	noteHandler := handler.NewNoteHandler(noteService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/auth/signup", authHandler.HandleSignUp)
		r.Post("/auth/signin", authHandler.HandleSignIn)
		r.Post("/auth/refresh-token", authHandler.HandleRefresh)
		r.Post("/auth/logout", authHandler.HandleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.AccessTokenSecret))

		r.Post("/auth/password", authHandler.HandleSetPassword)

		r.Get("/user", userHandler.HandleGet)
		r.Patch("/user", userHandler.HandleUpdate)
		r.Delete("/user", userHandler.HandleDelete)

		r.Get("/transaction", transactionHandler.HandleList)
		r.Get("/transaction/recent", transactionHandler.HandleRecent)
		r.Get("/transaction/total", transactionHandler.HandleTotal)
		r.Get("/transaction/stats/{month}/{year}", transactionHandler.HandleStats)
		r.Get("/transaction/date/{month}/{year}", transactionHandler.HandleByDate)
		r.Get("/transaction/summary/{month}/{year}", transactionHandler.HandleSummary)
		r.Post("/transaction", transactionHandler.HandleCreate)
		r.Put("/transaction/{id}", transactionHandler.HandleUpdate)
		r.Post("/transaction/delete", transactionHandler.HandleDelete)

		r.Get("/transaction/category", transactionHandler.HandleListCategories)
		r.Post("/transaction/category", transactionHandler.HandleCreateCategory)
		r.Put("/transaction/category/{id}", transactionHandler.HandleUpdateCategory)
		r.Delete("/transaction/category/{id}", transactionHandler.HandleDeleteCategory)

		r.Get("/note", noteHandler.HandleList)
		r.Post("/note", noteHandler.HandleCreate)
		r.Put("/note/{id}", noteHandler.HandleUpdate)
		r.Post("/note/delete", noteHandler.HandleDelete)
		r.Post("/note/{id}/{action}", noteHandler.HandlePin)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
