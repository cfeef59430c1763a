package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/pagesmith/pagesmith-backend/internal/handlers"
  "github.com/pagesmith/pagesmith-backend/internal/middleware"
)

type RouterConfig struct {
  IdentityMiddleware *middleware.IdentityMiddleware
  PageHandler        *handlers.PageHandler
  RevisionHandler    *handlers.RevisionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Spans per request against the global provider; a no-op provider when
  // tracing is disabled.
  router.Use(otelgin.Middleware("pagesmith-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-User-ID"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  api.Use(cfg.IdentityMiddleware.RequireIdentity())
  {
    // Editor surface
    api.POST("/pages", cfg.PageHandler.CreatePage)
    api.GET("/pages/:id", cfg.PageHandler.GetPage)
    api.GET("/pages/:id/widgets", cfg.PageHandler.ListWidgets)
    api.POST("/pages/:id/widgets/change", cfg.PageHandler.ApplyWidgetChange)
    // History UI
    api.POST("/pages/:id/revisions", cfg.RevisionHandler.CreateRevision)
    api.GET("/pages/:id/revisions/tree", cfg.RevisionHandler.GetTree)
    api.GET("/pages/:id/revisions/heads", cfg.RevisionHandler.GetHeads)
    api.POST("/pages/:id/revisions/:revisionId/publish", cfg.RevisionHandler.Publish)
  }

  return router
}
