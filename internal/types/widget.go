package types

import (
	"strings"
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	WidgetTypeText        = "text"
	WidgetTypeImage       = "image"
	WidgetTypeHero        = "hero"
	WidgetTypeButton      = "button"
	WidgetTypeContainer   = "container"
	WidgetTypeProductList = "product_list"
)

// TempIDPrefix marks widget ids minted by the editor before first persistence.
// Real ids replace them at the storage boundary, never in pure code.
const TempIDPrefix = "tmp-"

// Widget ids are strings rather than uuid columns: the editor hands us
// temporary ids and the position tie-break relies on plain string ordering.
type Widget struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	PageID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"page_id"`
	Page      *Page          `gorm:"constraint:OnDelete:CASCADE;foreignKey:PageID;references:ID" json:"page,omitempty"`
	Type      string         `gorm:"column:type;not null" json:"type"`
	Position  int            `gorm:"column:position;not null" json:"position"`
	Config    datatypes.JSON `gorm:"column:config;type:jsonb" json:"config"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Widget) TableName() string { return "widget" }

func IsTempWidgetID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

func NewTempWidgetID() string {
	return TempIDPrefix + uuid.NewString()
}

func NewWidgetID() string {
	return uuid.NewString()
}
