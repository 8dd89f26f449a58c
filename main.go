package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formbase/formbase/assets"
	"github.com/formbase/formbase/internal/feat/auth"
	"github.com/formbase/formbase/internal/feat/forms"
	"github.com/formbase/formbase/internal/feat/responses"
	"github.com/formbase/formbase/pkg/fb/app"
	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/database"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/formbase/formbase/pkg/fb/middleware"
	"github.com/go-chi/chi/v5"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	log := logger.New(cfg.Log.Level)

	log.Infof("Starting Formbase [%s mode]", cfg.Env)
	log.Infof("Database: %s", cfg.Database.Path)

	db := database.New(assets.MigrationsFS, cfg, log)
	db.SetMigrationPath(assets.MigrationsPath)

	authService := auth.NewService(db, cfg, log)
	formsService := forms.NewService(db, cfg, log)
	responsesService := responses.NewService(db, cfg, log)

	authHandler := auth.NewHandler(authService, log)
	formsHandler := forms.NewHandler(formsService, authService, log)
	responsesHandler := responses.NewHandler(responsesService, authService, cfg, log)

	authSeeder := auth.NewSeeder(authService, cfg, log)

	router := chi.NewRouter()
	middleware.DefaultStack(router, log, cfg.CORS.AllowedOrigins)

	deps := []any{db, authService, formsService, responsesService, authSeeder, authHandler, formsHandler, responsesHandler}

	starts, stops, registrars := app.Setup(deps...)
	if err := app.Start(ctx, log, starts, stops, registrars, router); err != nil {
		log.Errorf("Startup failed: %v", err)
		os.Exit(1)
	}

	srv := app.NewServer(router, cfg.Server.Addr,
		config.Duration(cfg.Server.ReadTimeout, 10*time.Second),
		config.Duration(cfg.Server.WriteTimeout, 30*time.Second))

	go func() {
		if err := app.Serve(srv); err != nil {
			log.Errorf("Server failed: %v", err)
			os.Exit(1)
		}
	}()
	log.Infof("Server listening on %s", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Shutdown(srv, log, config.Duration(cfg.Server.ShutdownTimeout, 5*time.Second), stops)
	log.Info("Server stopped")
}
