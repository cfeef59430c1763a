package handlers

import (
  "errors"
  "io"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/services"
)

type RevisionHandler struct {
  log             *logger.Logger
  revisionService services.RevisionService
}

func NewRevisionHandler(log *logger.Logger, revisionService services.RevisionService) *RevisionHandler {
  return &RevisionHandler{
    log:             log.With("handler", "RevisionHandler"),
    revisionService: revisionService,
  }
}

type createRevisionRequest struct {
  ParentRevisionID *uuid.UUID `json:"parent_revision_id,omitempty"`
  Notes            string     `json:"notes,omitempty"`
}

func (h *RevisionHandler) CreateRevision(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  // The body is optional: an empty POST snapshots with no parent or notes.
  var req createRevisionRequest
  if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
    RespondError(c, http.StatusBadRequest, "invalid_revision_payload", err)
    return
  }

  rev, err := h.revisionService.CreateRevision(c.Request.Context(), nil, pageID, services.CreateRevisionInput{
    ParentRevisionID: req.ParentRevisionID,
    Notes:            req.Notes,
  })
  if err != nil {
    h.log.Error("CreateRevision failed", "error", err, "page_id", pageID)
    RespondServiceError(c, "create_revision_failed", err)
    return
  }
  RespondCreated(c, gin.H{"revision": rev})
}

func (h *RevisionHandler) GetTree(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  nodes, err := h.revisionService.History(c.Request.Context(), pageID)
  if err != nil {
    h.log.Error("GetTree failed", "error", err, "page_id", pageID)
    RespondServiceError(c, "load_history_failed", err)
    return
  }
  RespondOK(c, gin.H{"nodes": nodes})
}

func (h *RevisionHandler) GetHeads(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  heads, err := h.revisionService.Heads(c.Request.Context(), pageID)
  if err != nil {
    h.log.Error("GetHeads failed", "error", err, "page_id", pageID)
    RespondServiceError(c, "load_heads_failed", err)
    return
  }
  RespondOK(c, gin.H{"heads": heads})
}

func (h *RevisionHandler) Publish(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  revisionID, err := uuid.Parse(c.Param("revisionId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_revision_id", err)
    return
  }

  rev, err := h.revisionService.Publish(c.Request.Context(), nil, pageID, revisionID, nil)
  if err != nil {
    h.log.Error("Publish failed", "error", err, "page_id", pageID, "revision_id", revisionID)
    RespondServiceError(c, "publish_failed", err)
    return
  }
  RespondOK(c, gin.H{"revision": rev})
}
