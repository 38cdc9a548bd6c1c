package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Book has no uniqueness constraint on (title, author); the duplicate check
// is application-level only, so concurrent creates can race.
type Book struct {
	ID          string                       `gorm:"type:char(24);primaryKey" json:"id"`
	Title       string                       `gorm:"size:200;not null;index" json:"title"`
	Author      string                       `gorm:"size:100;not null;index" json:"author"`
	Genre       datatypes.JSONSlice[string]  `gorm:"not null" json:"genre"`
	Description string                       `gorm:"type:text;not null" json:"description"`
	CreatedByID string                       `gorm:"type:char(24);not null;index" json:"-"`
	CreatedBy   User                         `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"createdBy"`
	CreatedAt   time.Time                    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}
