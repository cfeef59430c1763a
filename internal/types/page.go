package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

type Page struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Slug       string         `gorm:"column:slug;not null;index" json:"slug"`
	Status     string         `gorm:"column:status;not null" json:"status"`
	ColorTheme *string        `gorm:"column:color_theme" json:"color_theme,omitempty"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Page) TableName() string { return "page" }
