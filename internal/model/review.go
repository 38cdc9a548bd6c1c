package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is unique per (book, user); the composite index backs the
// application-level already-reviewed check under concurrent submission.
type Review struct {
	ID        string    `gorm:"type:char(24);primaryKey" json:"id"`
	BookID    string    `gorm:"type:char(24);not null;uniqueIndex:idx_reviews_book_user" json:"bookId"`
	Book      Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book"`
	UserID    string    `gorm:"type:char(24);not null;uniqueIndex:idx_reviews_book_user" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:1000;not null" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
