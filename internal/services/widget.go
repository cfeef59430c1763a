package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/repos"
  "github.com/pagesmith/pagesmith-backend/internal/types"
  "github.com/pagesmith/pagesmith-backend/internal/widgets"
)

type WidgetService interface {
  ListWidgets(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) ([]*types.Widget, error)
  ApplyChange(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, change widgets.Change, captureRevision bool) ([]*types.Widget, error)
}

type widgetService struct {
  db           *gorm.DB
  log          *logger.Logger
  pageRepo     repos.PageRepo
  widgetRepo   repos.WidgetRepo
  revisionSvc  RevisionService
}

func NewWidgetService(
  db *gorm.DB,
  baseLog *logger.Logger,
  pageRepo repos.PageRepo,
  widgetRepo repos.WidgetRepo,
  revisionSvc RevisionService,
) WidgetService {
  return &widgetService{
    db:          db,
    log:         baseLog.With("service", "WidgetService"),
    pageRepo:    pageRepo,
    widgetRepo:  widgetRepo,
    revisionSvc: revisionSvc,
  }
}

func (s *widgetService) ListWidgets(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) ([]*types.Widget, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if _, err := s.requirePage(ctx, transaction, pageID); err != nil {
    return nil, err
  }
  live, err := s.widgetRepo.GetByPageIDs(ctx, transaction, []uuid.UUID{pageID})
  if err != nil {
    return nil, err
  }
  // Live rows may predate normalization; every read-for-edit self-heals.
  return widgets.Normalize(live), nil
}

// ApplyChange runs one editor mutation against the page's live widget list
// and persists the normalized result. With captureRevision set, the saved
// state is also snapshotted as a new revision in the same transaction.
func (s *widgetService) ApplyChange(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, change widgets.Change, captureRevision bool) ([]*types.Widget, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if _, err := s.requirePage(ctx, transaction, pageID); err != nil {
    return nil, err
  }

  current, err := s.widgetRepo.GetByPageIDs(ctx, transaction, []uuid.UUID{pageID})
  if err != nil {
    s.log.Warn("ApplyChange: load widgets failed", "error", err, "page_id", pageID)
    return nil, err
  }

  next := widgets.Apply(current, change)
  next = materializeWidgets(pageID, next)

  err = transaction.Transaction(func(innerTx *gorm.DB) error {
    if err := s.widgetRepo.ReplaceForPage(ctx, innerTx, pageID, next); err != nil {
      return err
    }
    if captureRevision {
      note := fmt.Sprintf("widget %s", change.Action)
      if _, err := s.revisionSvc.CreateRevision(ctx, innerTx, pageID, CreateRevisionInput{Notes: note}); err != nil {
        return err
      }
    }
    return nil
  })
  if err != nil {
    s.log.Error("ApplyChange: persist failed", "error", err, "page_id", pageID, "action", change.Action)
    return nil, err
  }
  return next, nil
}

func (s *widgetService) requirePage(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (*types.Page, error) {
  pages, err := s.pageRepo.GetByIDs(ctx, tx, []uuid.UUID{pageID})
  if err != nil {
    return nil, err
  }
  if len(pages) == 0 || pages[0] == nil {
    return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
  }
  return pages[0], nil
}

// materializeWidgets prepares an edited list for persistence: temporary
// editor ids become real ids here, at the storage boundary, and every row is
// stamped with the owning page. Pure widget code never mints real ids.
func materializeWidgets(pageID uuid.UUID, ws []*types.Widget) []*types.Widget {
  out := make([]*types.Widget, len(ws))
  for i, w := range ws {
    clone := *w
    if clone.ID == "" || types.IsTempWidgetID(clone.ID) {
      clone.ID = types.NewWidgetID()
    }
    clone.PageID = pageID
    out[i] = &clone
  }
  return out
}
