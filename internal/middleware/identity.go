package middleware

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/requestdata"
)

// IdentityMiddleware reads the editor identity set by the upstream gateway.
// This service trusts X-User-ID; token verification lives in front of it.
type IdentityMiddleware struct {
  log *logger.Logger
}

func NewIdentityMiddleware(log *logger.Logger) *IdentityMiddleware {
  return &IdentityMiddleware{log: log.With("Middleware", "IdentityMiddleware")}
}

func (im *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
  return func(c *gin.Context) {
    raw := c.GetHeader("X-User-ID")
    if raw == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
      return
    }
    userID, err := uuid.Parse(raw)
    if err != nil || userID == uuid.Nil {
      im.log.Debug("rejecting malformed identity header", "value", raw)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid identity"})
      return
    }
    ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{UserID: userID})
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}
