package services

import (
  "context"
  "encoding/json"
  "fmt"

  "github.com/google/uuid"
  "golang.org/x/sync/singleflight"
  "gorm.io/gorm"

  redisclient "github.com/pagesmith/pagesmith-backend/internal/clients/redis"
  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/repos"
  "github.com/pagesmith/pagesmith-backend/internal/requestdata"
  "github.com/pagesmith/pagesmith-backend/internal/revision"
  "github.com/pagesmith/pagesmith-backend/internal/types"
  "github.com/pagesmith/pagesmith-backend/internal/widgets"
)

type CreateRevisionInput struct {
  ParentRevisionID *uuid.UUID
  Notes            string
  CreatedBy        *uuid.UUID
}

type RevisionService interface {
  CreateRevision(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, input CreateRevisionInput) (*types.PageRevision, error)
  History(ctx context.Context, pageID uuid.UUID) ([]*revision.Node, error)
  Heads(ctx context.Context, pageID uuid.UUID) ([]*types.PageRevision, error)
  Publish(ctx context.Context, tx *gorm.DB, pageID, revisionID uuid.UUID, publishedBy *uuid.UUID) (*types.PageRevision, error)
}

type revisionService struct {
  db           *gorm.DB
  log          *logger.Logger
  pageRepo     repos.PageRepo
  widgetRepo   repos.WidgetRepo
  revisionRepo repos.PageRevisionRepo
  treeCache    redisclient.TreeCache
  buildGroup   singleflight.Group
}

func NewRevisionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  pageRepo repos.PageRepo,
  widgetRepo repos.WidgetRepo,
  revisionRepo repos.PageRevisionRepo,
  treeCache redisclient.TreeCache,
) RevisionService {
  return &revisionService{
    db:           db,
    log:          baseLog.With("service", "RevisionService"),
    pageRepo:     pageRepo,
    widgetRepo:   widgetRepo,
    revisionRepo: revisionRepo,
    treeCache:    treeCache,
  }
}

// CreateRevision snapshots the page's current metadata and live widgets as a
// new immutable revision. History is append-only; nothing existing changes.
func (s *revisionService) CreateRevision(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, input CreateRevisionInput) (*types.PageRevision, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  pages, err := s.pageRepo.GetByIDs(ctx, transaction, []uuid.UUID{pageID})
  if err != nil {
    return nil, err
  }
  if len(pages) == 0 || pages[0] == nil {
    return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
  }
  page := pages[0]

  live, err := s.widgetRepo.GetByPageIDs(ctx, transaction, []uuid.UUID{pageID})
  if err != nil {
    s.log.Warn("CreateRevision: load widgets failed", "error", err, "page_id", pageID)
    return nil, err
  }
  snapshot, err := widgets.EncodeSnapshot(widgets.Normalize(live))
  if err != nil {
    return nil, err
  }

  hash, err := s.allocateHash(ctx, transaction, pageID)
  if err != nil {
    return nil, err
  }

  createdBy := input.CreatedBy
  if createdBy == nil {
    if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
      id := rd.UserID
      createdBy = &id
    }
  }

  rev := &types.PageRevision{
    ID:               uuid.New(),
    PageID:           pageID,
    RevisionHash:     hash,
    ParentRevisionID: input.ParentRevisionID,
    Title:            page.Title,
    Slug:             page.Slug,
    Status:           page.Status,
    ColorTheme:       page.ColorTheme,
    WidgetsSnapshot:  snapshot,
    CreatedBy:        createdBy,
    Notes:            input.Notes,
  }
  if _, err := s.revisionRepo.Create(ctx, transaction, []*types.PageRevision{rev}); err != nil {
    s.log.Error("CreateRevision: insert failed", "error", err, "page_id", pageID)
    return nil, err
  }

  s.invalidateTree(ctx, pageID)
  return rev, nil
}

// History rebuilds the branch/depth tree for a page. The build is pure and
// repeatable, so results are cached in redis and concurrent builds for the
// same page collapse into one.
func (s *revisionService) History(ctx context.Context, pageID uuid.UUID) ([]*revision.Node, error) {
  result, err, _ := s.buildGroup.Do(pageID.String(), func() (interface{}, error) {
    if s.treeCache != nil {
      if raw, ok := s.treeCache.Get(ctx, pageID); ok {
        var cached []*revision.Node
        if err := json.Unmarshal(raw, &cached); err == nil {
          return cached, nil
        }
        s.log.Warn("History: dropping unreadable cache entry", "page_id", pageID)
      }
    }

    revisions, err := s.revisionRepo.GetByPageIDs(ctx, nil, []uuid.UUID{pageID})
    if err != nil {
      return nil, err
    }
    nodes := revision.BuildTree(revisions)

    if s.treeCache != nil {
      if payload, err := json.Marshal(nodes); err == nil {
        s.treeCache.Set(ctx, pageID, payload)
      }
    }
    return nodes, nil
  })
  if err != nil {
    s.log.Error("History: tree build failed", "error", err, "page_id", pageID)
    return nil, err
  }
  return result.([]*revision.Node), nil
}

// Heads returns the current branch tips without building the tree.
func (s *revisionService) Heads(ctx context.Context, pageID uuid.UUID) ([]*types.PageRevision, error) {
  revisions, err := s.revisionRepo.GetByPageIDs(ctx, nil, []uuid.UUID{pageID})
  if err != nil {
    s.log.Error("Heads: load revisions failed", "error", err, "page_id", pageID)
    return nil, err
  }
  return revision.FindHeads(revisions), nil
}

// Publish re-applies a historical revision as a brand-new head: cherry-pick,
// not rewind. The new head carries the old content, parents onto whatever
// was published before it (or onto the source for a first publish), and the
// page's live state swaps to match — all in one transaction so a failure
// leaves no partial swap behind.
func (s *revisionService) Publish(ctx context.Context, tx *gorm.DB, pageID, revisionID uuid.UUID, publishedBy *uuid.UUID) (*types.PageRevision, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  sources, err := s.revisionRepo.GetByIDs(ctx, transaction, []uuid.UUID{revisionID})
  if err != nil {
    return nil, err
  }
  if len(sources) == 0 || sources[0] == nil || sources[0].PageID != pageID {
    return nil, fmt.Errorf("%w: %s (page %s)", ErrRevisionNotFound, revisionID, pageID)
  }
  source := sources[0]

  snapshotWidgets, err := widgets.DecodeSnapshot(source.WidgetsSnapshot)
  if err != nil {
    s.log.Error("Publish: source snapshot unreadable", "error", err, "page_id", pageID, "revision_id", revisionID)
    return nil, err
  }

  prior, err := s.revisionRepo.GetPublished(ctx, transaction, pageID)
  if err != nil {
    return nil, err
  }

  hash, err := s.allocateHash(ctx, transaction, pageID)
  if err != nil {
    return nil, err
  }

  parentID := source.ID
  if prior != nil {
    parentID = prior.ID
  }

  if publishedBy == nil {
    if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
      id := rd.UserID
      publishedBy = &id
    }
  }

  head := &types.PageRevision{
    ID:               uuid.New(),
    PageID:           pageID,
    RevisionHash:     hash,
    ParentRevisionID: &parentID,
    Title:            source.Title,
    Slug:             source.Slug,
    Status:           types.PageStatusPublished,
    ColorTheme:       source.ColorTheme,
    WidgetsSnapshot:  source.WidgetsSnapshot,
    CreatedBy:        publishedBy,
    Notes:            fmt.Sprintf("published from revision %s", source.RevisionHash),
  }

  live := materializeWidgets(pageID, widgets.Normalize(snapshotWidgets))

  err = transaction.Transaction(func(innerTx *gorm.DB) error {
    if _, err := s.revisionRepo.Create(ctx, innerTx, []*types.PageRevision{head}); err != nil {
      return err
    }
    if err := s.revisionRepo.ClearPublished(ctx, innerTx, pageID); err != nil {
      return err
    }
    if err := s.revisionRepo.MarkPublished(ctx, innerTx, head.ID); err != nil {
      return err
    }
    if err := s.pageRepo.UpdateMetadata(ctx, innerTx, pageID, repos.PageMetadata{
      Title:      source.Title,
      Slug:       source.Slug,
      Status:     types.PageStatusPublished,
      ColorTheme: source.ColorTheme,
    }); err != nil {
      return err
    }
    return s.widgetRepo.ReplaceForPage(ctx, innerTx, pageID, live)
  })
  if err != nil {
    s.log.Error("Publish failed", "error", err, "page_id", pageID, "revision_id", revisionID)
    return nil, err
  }
  head.IsPublished = true
  head.Status = types.PageStatusPublished

  s.invalidateTree(ctx, pageID)
  s.log.Info("Published revision", "page_id", pageID, "source_revision", source.RevisionHash, "new_revision", head.RevisionHash)
  return head, nil
}

// The cache is optional; a nil TreeCache just means every History call
// rebuilds from the table.
func (s *revisionService) invalidateTree(ctx context.Context, pageID uuid.UUID) {
  if s.treeCache == nil {
    return
  }
  s.treeCache.Invalidate(ctx, pageID)
}

func (s *revisionService) allocateHash(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (string, error) {
  existing, err := s.revisionRepo.HashesForPage(ctx, tx, pageID)
  if err != nil {
    return "", err
  }
  hash, retries := revision.AllocateHash(existing)
  if retries > revision.WarnRetryThreshold {
    s.log.Warn("revision hash allocation retried excessively", "page_id", pageID, "retries", retries)
  }
  return hash, nil
}
