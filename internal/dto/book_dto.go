package dto

import "time"

type CreateBookRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Author      string   `json:"author" binding:"required,min=2,max=100,authorname"`
	Genre       []string `json:"genre" binding:"required,min=1,max=5,dive,notblank,max=50"`
	Description string   `json:"description" binding:"required,min=10,max=2000"`

	// CreatedBy lets an admin attribute the book to another user. Ignored
	// for everyone else.
	CreatedBy string `json:"createdBy"`
}

// BookFilter is the typed query specification for listing books. Text
// filters are case-insensitive partial matches; translation to SQL happens
// in the repository only.
type BookFilter struct {
	Title  string
	Author string
	Genre  string
	Sort   string
	Order  string
	PageQuery
}

type BookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         []string  `json:"genre"`
	Description   string    `json:"description"`
	CreatedBy     UserRef   `json:"createdBy"`
	AverageRating float64   `json:"averageRating"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookRef is the short projection embedded in review responses.
type BookRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type BookListResponse struct {
	Books      []BookResponse `json:"books"`
	Pagination Pagination     `json:"pagination"`
}

// BookDetailResponse is one book with a page of its reviews.
type BookDetailResponse struct {
	BookResponse
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination Pagination       `json:"pagination"`
}
