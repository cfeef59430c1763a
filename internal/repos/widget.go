package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/types"
)

type WidgetRepo interface {
  Create(ctx context.Context, tx *gorm.DB, widgets []*types.Widget) ([]*types.Widget, error)
  GetByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.Widget, error)
  DeleteByIDs(ctx context.Context, tx *gorm.DB, widgetIDs []string) error
  ReplaceForPage(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, widgets []*types.Widget) error
}

type widgetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWidgetRepo(db *gorm.DB, baseLog *logger.Logger) WidgetRepo {
  return &widgetRepo{db: db, log: baseLog.With("repo", "WidgetRepo")}
}

func (r *widgetRepo) Create(ctx context.Context, tx *gorm.DB, widgets []*types.Widget) ([]*types.Widget, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(widgets) == 0 {
    return []*types.Widget{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&widgets).Error; err != nil {
    return nil, err
  }
  return widgets, nil
}

func (r *widgetRepo) GetByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.Widget, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Widget
  if len(pageIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("page_id IN ?", pageIDs).
    Order("position ASC, id ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *widgetRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, widgetIDs []string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(widgetIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", widgetIDs).
    Delete(&types.Widget{}).Error; err != nil {
    return err
  }
  return nil
}

// ReplaceForPage swaps a page's live widget set in one shot. Callers that
// need the swap to be atomic with other statements pass their transaction.
func (r *widgetRepo) ReplaceForPage(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, widgets []*types.Widget) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Where("page_id = ?", pageID).
    Delete(&types.Widget{}).Error; err != nil {
    return err
  }
  if len(widgets) == 0 {
    return nil
  }
  if err := transaction.WithContext(ctx).Create(&widgets).Error; err != nil {
    return err
  }
  return nil
}
