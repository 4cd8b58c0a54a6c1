package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinex/config"
	"cinex/handlers"
	"cinex/internal/database"
	"cinex/services/catalog"
	"cinex/utils"
)

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	configPath := os.Getenv("CINEX_CONFIG")
	if configPath == "" {
		configPath = "config.json"
	}

	manager := config.NewManager(configPath)
	settings, err := manager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	if settings.Log.Path != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   settings.Log.Path,
			MaxSize:    settings.Log.MaxSizeMB,
			MaxBackups: settings.Log.MaxBackups,
			MaxAge:     settings.Log.MaxAgeDays,
		})
	}

	db, err := database.NewDB(database.Config{DatabasePath: settings.Database.Path})
	if err != nil {
		log.Fatalf("failed to open state database: %v", err)
	}
	defer db.Close()

	service := catalog.NewService(catalog.NewItemStore(db.State))
	service.Hydrate()

	router := utils.NewRouter()
	handlers.NewCatalogHandler(service).RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("[main] cinex listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
}
