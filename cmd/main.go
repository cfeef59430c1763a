package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/pagesmith/pagesmith-backend/internal/clients/redis"
  "github.com/pagesmith/pagesmith-backend/internal/db"
  "github.com/pagesmith/pagesmith-backend/internal/handlers"
  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/middleware"
  "github.com/pagesmith/pagesmith-backend/internal/observability"
  "github.com/pagesmith/pagesmith-backend/internal/repos"
  "github.com/pagesmith/pagesmith-backend/internal/server"
  "github.com/pagesmith/pagesmith-backend/internal/services"
  "github.com/pagesmith/pagesmith-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing (no-op unless OTEL_ENABLED)
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "pagesmith-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      if err := otelShutdown(ctx); err != nil {
        log.Warn("otel shutdown failed", "error", err)
      }
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  pageRepo := repos.NewPageRepo(thePG, log)
  widgetRepo := repos.NewWidgetRepo(thePG, log)
  pageRevisionRepo := repos.NewPageRevisionRepo(thePG, log)

  // Tree cache (optional; the engine runs fine without redis)
  var treeCache redis.TreeCache
  if cache, err := redis.NewTreeCache(log); err != nil {
    log.Warn("Could not init redis tree cache, history will rebuild on every read", "error", err)
  } else {
    treeCache = cache
    defer cache.Close()
  }

  // Services
  log.Info("Setting up Services from main...")
  pageService := services.NewPageService(thePG, log, pageRepo)
  revisionService := services.NewRevisionService(thePG, log, pageRepo, widgetRepo, pageRevisionRepo, treeCache)
  widgetService := services.NewWidgetService(thePG, log, pageRepo, widgetRepo, revisionService)

  // Handlers
  log.Info("Setting up handlers from main...")
  pageHandler := handlers.NewPageHandler(log, pageService, widgetService)
  revisionHandler := handlers.NewRevisionHandler(log, revisionService)

  // Middleware
  log.Info("Setting up middleware from main...")
  identityMiddleware := middleware.NewIdentityMiddleware(log)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    IdentityMiddleware: identityMiddleware,
    PageHandler:        pageHandler,
    RevisionHandler:    revisionHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
