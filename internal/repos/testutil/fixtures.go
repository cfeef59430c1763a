package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

func SeedPage(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Page {
	tb.Helper()
	p := &types.Page{
		ID:     uuid.New(),
		Title:  title,
		Slug:   title,
		Status: types.PageStatusDraft,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed page: %v", err)
	}
	return p
}

func SeedWidget(tb testing.TB, ctx context.Context, tx *gorm.DB, pageID uuid.UUID, id string, position int) *types.Widget {
	tb.Helper()
	w := &types.Widget{
		ID:       id,
		PageID:   pageID,
		Type:     types.WidgetTypeText,
		Position: position,
		Config:   datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed widget: %v", err)
	}
	return w
}

func SeedRevision(tb testing.TB, ctx context.Context, tx *gorm.DB, pageID uuid.UUID, hash string, parent *uuid.UUID, createdAt time.Time) *types.PageRevision {
	tb.Helper()
	r := &types.PageRevision{
		ID:               uuid.New(),
		PageID:           pageID,
		RevisionHash:     hash,
		ParentRevisionID: parent,
		Title:            "page",
		Slug:             "page",
		Status:           types.PageStatusDraft,
		WidgetsSnapshot:  datatypes.JSON([]byte(`[]`)),
		CreatedAt:        createdAt,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed revision: %v", err)
	}
	return r
}
