package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/types"
)

type PageMetadata struct {
  Title      string
  Slug       string
  Status     string
  ColorTheme *string
}

type PageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, pages []*types.Page) ([]*types.Page, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.Page, error)
  UpdateMetadata(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, meta PageMetadata) error
}

type pageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPageRepo(db *gorm.DB, baseLog *logger.Logger) PageRepo {
  return &pageRepo{db: db, log: baseLog.With("repo", "PageRepo")}
}

func (r *pageRepo) Create(ctx context.Context, tx *gorm.DB, pages []*types.Page) ([]*types.Page, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(pages) == 0 {
    return []*types.Page{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&pages).Error; err != nil {
    return nil, err
  }
  return pages, nil
}

func (r *pageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.Page, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Page
  if len(pageIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", pageIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *pageRepo) UpdateMetadata(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, meta PageMetadata) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  updates := map[string]interface{}{
    "title":       meta.Title,
    "slug":        meta.Slug,
    "status":      meta.Status,
    "color_theme": meta.ColorTheme,
    "updated_at":  time.Now(),
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Page{}).
    Where("id = ?", pageID).
    Updates(updates).Error; err != nil {
    return err
  }
  return nil
}
