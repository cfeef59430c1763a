package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/types"
)

type PageRevisionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, revisions []*types.PageRevision) ([]*types.PageRevision, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, revisionIDs []uuid.UUID) ([]*types.PageRevision, error)
  GetByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.PageRevision, error)
  GetPublished(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (*types.PageRevision, error)
  HashesForPage(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (map[string]struct{}, error)
  ClearPublished(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) error
  MarkPublished(ctx context.Context, tx *gorm.DB, revisionID uuid.UUID) error
}

type pageRevisionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPageRevisionRepo(db *gorm.DB, baseLog *logger.Logger) PageRevisionRepo {
  return &pageRevisionRepo{db: db, log: baseLog.With("repo", "PageRevisionRepo")}
}

func (r *pageRevisionRepo) Create(ctx context.Context, tx *gorm.DB, revisions []*types.PageRevision) ([]*types.PageRevision, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(revisions) == 0 {
    return []*types.PageRevision{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&revisions).Error; err != nil {
    return nil, err
  }
  return revisions, nil
}

func (r *pageRevisionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, revisionIDs []uuid.UUID) ([]*types.PageRevision, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PageRevision
  if len(revisionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", revisionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetByPageIDs returns revisions oldest first, which keeps "first
// encountered" deterministic for the tree builder's root selection.
func (r *pageRevisionRepo) GetByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.PageRevision, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PageRevision
  if len(pageIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("page_id IN ?", pageIDs).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *pageRevisionRepo) GetPublished(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (*types.PageRevision, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PageRevision
  if err := transaction.WithContext(ctx).
    Where("page_id = ? AND is_published = ?", pageID, true).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *pageRevisionRepo) HashesForPage(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (map[string]struct{}, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var hashes []string
  if err := transaction.WithContext(ctx).
    Model(&types.PageRevision{}).
    Where("page_id = ?", pageID).
    Pluck("revision_hash", &hashes).Error; err != nil {
    return nil, err
  }
  out := make(map[string]struct{}, len(hashes))
  for _, h := range hashes {
    out[h] = struct{}{}
  }
  return out, nil
}

func (r *pageRevisionRepo) ClearPublished(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.PageRevision{}).
    Where("page_id = ?", pageID).
    Update("is_published", false).Error; err != nil {
    return err
  }
  return nil
}

func (r *pageRevisionRepo) MarkPublished(ctx context.Context, tx *gorm.DB, revisionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.PageRevision{}).
    Where("id = ?", revisionID).
    Updates(map[string]interface{}{
      "is_published": true,
      "status":       types.PageStatusPublished,
    }).Error; err != nil {
    return err
  }
  return nil
}
