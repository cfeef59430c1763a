package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/pagesmith/pagesmith-backend/internal/logger"
  "github.com/pagesmith/pagesmith-backend/internal/repos"
  "github.com/pagesmith/pagesmith-backend/internal/requestdata"
  "github.com/pagesmith/pagesmith-backend/internal/types"
)

type CreatePageInput struct {
  Title      string
  Slug       string
  ColorTheme *string
}

type PageService interface {
  CreatePage(ctx context.Context, tx *gorm.DB, input CreatePageInput) (*types.Page, error)
  GetPage(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (*types.Page, error)
}

type pageService struct {
  db       *gorm.DB
  log      *logger.Logger
  pageRepo repos.PageRepo
}

func NewPageService(db *gorm.DB, baseLog *logger.Logger, pageRepo repos.PageRepo) PageService {
  return &pageService{
    db:       db,
    log:      baseLog.With("service", "PageService"),
    pageRepo: pageRepo,
  }
}

func (s *pageService) CreatePage(ctx context.Context, tx *gorm.DB, input CreatePageInput) (*types.Page, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  title := strings.TrimSpace(input.Title)
  if title == "" {
    return nil, fmt.Errorf("missing page title")
  }
  slug := strings.TrimSpace(input.Slug)
  if slug == "" {
    slug = slugify(title)
  }

  var createdBy *uuid.UUID
  if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
    id := rd.UserID
    createdBy = &id
  }

  page := &types.Page{
    ID:         uuid.New(),
    Title:      title,
    Slug:       slug,
    Status:     types.PageStatusDraft,
    ColorTheme: input.ColorTheme,
    CreatedBy:  createdBy,
  }
  if _, err := s.pageRepo.Create(ctx, transaction, []*types.Page{page}); err != nil {
    s.log.Error("CreatePage: insert failed", "error", err, "title", title)
    return nil, err
  }
  return page, nil
}

func (s *pageService) GetPage(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (*types.Page, error) {
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
  return pages[0], nil
}

func slugify(title string) string {
  out := make([]rune, 0, len(title))
  lastDash := true
  for _, r := range strings.ToLower(title) {
    switch {
    case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
      out = append(out, r)
      lastDash = false
    default:
      if !lastDash {
        out = append(out, '-')
        lastDash = true
      }
    }
  }
  return strings.Trim(string(out), "-")
}
