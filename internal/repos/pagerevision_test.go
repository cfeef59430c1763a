package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith-backend/internal/repos/testutil"
	"github.com/pagesmith/pagesmith-backend/internal/types"
)

func TestPageRevisionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPageRevisionRepo(db, testutil.Logger(t))

	page := testutil.SeedPage(t, ctx, tx, "revision-repo-page")
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	r1 := testutil.SeedRevision(t, ctx, tx, page.ID, "cafe0001", nil, base)
	r2 := testutil.SeedRevision(t, ctx, tx, page.ID, "cafe0002", &r1.ID, base.Add(time.Hour))

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{r1.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	rows, err := repo.GetByPageIDs(ctx, tx, []uuid.UUID{page.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByPageIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != r1.ID || rows[1].ID != r2.ID {
		t.Fatalf("GetByPageIDs not oldest-first")
	}

	hashes, err := repo.HashesForPage(ctx, tx, page.ID)
	if err != nil {
		t.Fatalf("HashesForPage: %v", err)
	}
	if _, ok := hashes["cafe0001"]; !ok || len(hashes) != 2 {
		t.Fatalf("HashesForPage = %v", hashes)
	}

	if pub, err := repo.GetPublished(ctx, tx, page.ID); err != nil || pub != nil {
		t.Fatalf("GetPublished before publish: pub=%v err=%v", pub, err)
	}

	if err := repo.MarkPublished(ctx, tx, r1.ID); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}
	pub, err := repo.GetPublished(ctx, tx, page.ID)
	if err != nil || pub == nil || pub.ID != r1.ID {
		t.Fatalf("GetPublished after publish: pub=%v err=%v", pub, err)
	}
	if pub.Status != types.PageStatusPublished {
		t.Fatalf("MarkPublished did not set status, got %q", pub.Status)
	}

	if err := repo.ClearPublished(ctx, tx, page.ID); err != nil {
		t.Fatalf("ClearPublished: %v", err)
	}
	if pub, err := repo.GetPublished(ctx, tx, page.ID); err != nil || pub != nil {
		t.Fatalf("GetPublished after clear: pub=%v err=%v", pub, err)
	}

	// Empty-input short-circuits.
	if rows, err := repo.GetByIDs(ctx, tx, nil); err != nil || len(rows) != 0 {
		t.Fatalf("GetByIDs(nil): err=%v len=%d", err, len(rows))
	}
	if created, err := repo.Create(ctx, tx, nil); err != nil || len(created) != 0 {
		t.Fatalf("Create(nil): err=%v len=%d", err, len(created))
	}
}
