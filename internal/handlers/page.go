package handlers

import (
  "fmt"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/services"
  "github.com/pagesmith/pagesmith-backend/internal/widgets"
)

type PageHandler struct {
  log           *logger.Logger
  pageService   services.PageService
  widgetService services.WidgetService
}

func NewPageHandler(log *logger.Logger, pageService services.PageService, widgetService services.WidgetService) *PageHandler {
  return &PageHandler{
    log:           log.With("handler", "PageHandler"),
    pageService:   pageService,
    widgetService: widgetService,
  }
}

type createPageRequest struct {
  Title      string  `json:"title" binding:"required"`
  Slug       string  `json:"slug"`
  ColorTheme *string `json:"color_theme,omitempty"`
}

func (h *PageHandler) CreatePage(c *gin.Context) {
  var req createPageRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_payload", err)
    return
  }
  page, err := h.pageService.CreatePage(c.Request.Context(), nil, services.CreatePageInput{
    Title:      req.Title,
    Slug:       req.Slug,
    ColorTheme: req.ColorTheme,
  })
  if err != nil {
    h.log.Error("CreatePage failed", "error", err)
    RespondServiceError(c, "create_page_failed", err)
    return
  }
  RespondCreated(c, gin.H{"page": page})
}

func (h *PageHandler) GetPage(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  page, err := h.pageService.GetPage(c.Request.Context(), nil, pageID)
  if err != nil {
    h.log.Error("GetPage failed", "error", err, "page_id", pageID)
    RespondServiceError(c, "load_page_failed", err)
    return
  }
  RespondOK(c, gin.H{"page": page})
}

func (h *PageHandler) ListWidgets(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  ws, err := h.widgetService.ListWidgets(c.Request.Context(), nil, pageID)
  if err != nil {
    h.log.Error("ListWidgets failed", "error", err, "page_id", pageID)
    RespondServiceError(c, "load_widgets_failed", err)
    return
  }
  RespondOK(c, gin.H{"widgets": ws})
}

type widgetChangeRequest struct {
  Change          widgets.Change `json:"change"`
  CaptureRevision bool           `json:"capture_revision"`
}

func (h *PageHandler) ApplyWidgetChange(c *gin.Context) {
  pageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_page_id", err)
    return
  }
  var req widgetChangeRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_change_payload", err)
    return
  }
  if req.Change.Action == "" {
    RespondError(c, http.StatusBadRequest, "invalid_change_payload", fmt.Errorf("missing change action"))
    return
  }

  ws, err := h.widgetService.ApplyChange(c.Request.Context(), nil, pageID, req.Change, req.CaptureRevision)
  if err != nil {
    h.log.Error("ApplyWidgetChange failed", "error", err, "page_id", pageID, "action", req.Change.Action)
    RespondServiceError(c, "apply_change_failed", err)
    return
  }
  RespondOK(c, gin.H{"widgets": ws})
}
