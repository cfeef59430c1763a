package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/pagesmith/pagesmith-backend/internal/services"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondServiceError maps the service error taxonomy onto HTTP statuses:
// not-found sentinels become 404, everything else is a storage failure the
// caller may retry manually.
func RespondServiceError(c *gin.Context, code string, err error) {
  if errors.Is(err, services.ErrPageNotFound) || errors.Is(err, services.ErrRevisionNotFound) {
    RespondError(c, http.StatusNotFound, code, err)
    return
  }
  RespondError(c, http.StatusInternalServerError, code, err)
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, payload)
}
