package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PageRevision is an append-only snapshot of a page. Rows are never updated
// after insert except for the is_published flag, which only the publish
// transaction flips.
type PageRevision struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PageID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_page_revision_hash" json:"page_id"`
	Page             *Page          `gorm:"constraint:OnDelete:CASCADE;foreignKey:PageID;references:ID" json:"page,omitempty"`
	RevisionHash     string         `gorm:"column:revision_hash;size:8;not null;uniqueIndex:idx_page_revision_hash" json:"revision_hash"`
	ParentRevisionID *uuid.UUID     `gorm:"type:uuid;index" json:"parent_revision_id,omitempty"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Slug             string         `gorm:"column:slug;not null" json:"slug"`
	Status           string         `gorm:"column:status;not null" json:"status"`
	ColorTheme       *string        `gorm:"column:color_theme" json:"color_theme,omitempty"`
	WidgetsSnapshot  datatypes.JSON `gorm:"column:widgets_snapshot;type:jsonb" json:"widgets_snapshot"`
	CreatedBy        *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	Notes            string         `gorm:"column:notes" json:"notes,omitempty"`
	IsPublished      bool           `gorm:"column:is_published;not null;index" json:"is_published"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
}

func (PageRevision) TableName() string { return "page_revision" }
