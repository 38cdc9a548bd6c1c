package dto

import "time"

// ReviewRequest covers both create and update; updates revalidate the full
// shape rather than going partial.
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=5,max=1000"`
}

// ReviewFilter selects and orders one book's reviews. Sort is one of
// "rating-high", "rating-low", "oldest"; anything else means newest first.
type ReviewFilter struct {
	Sort string
	PageQuery
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	User      UserRef   `json:"user"`
	Book      *BookRef  `json:"book,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReviewListResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination Pagination       `json:"pagination"`
}
