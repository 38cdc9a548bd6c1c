package service

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/model"
	"booknest.app/bookreviewapi/internal/repository"
	"booknest.app/bookreviewapi/pkg/apperror"
	"gorm.io/gorm"
)

type BookService interface {
	Create(ctx context.Context, actor *model.User, input dto.CreateBookRequest) (*dto.BookResponse, error)
	List(ctx context.Context, filter dto.BookFilter) (*dto.BookListResponse, error)
	Get(ctx context.Context, id string, reviewPage dto.PageQuery) (*dto.BookDetailResponse, error)
	Search(ctx context.Context, query string, page dto.PageQuery) (*dto.BookListResponse, error)
}

type bookService struct {
	bookRepo   repository.BookRepository
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	search     SearchService
}

func NewBookService(bookRepo repository.BookRepository, reviewRepo repository.ReviewRepository, userRepo repository.UserRepository, search SearchService) BookService {
	return &bookService{
		bookRepo:   bookRepo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		search:     search,
	}
}

func (s *bookService) Create(ctx context.Context, actor *model.User, input dto.CreateBookRequest) (*dto.BookResponse, error) {
	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)

	genres := make([]string, 0, len(input.Genre))
	for _, genre := range input.Genre {
		trimmed := strings.TrimSpace(genre)
		if trimmed == "" {
			return nil, apperror.Validation("genre: At least one genre is required", nil)
		}
		genres = append(genres, trimmed)
	}

	if _, err := s.bookRepo.FindDuplicate(ctx, title, author); err == nil {
		return nil, apperror.BadRequest("A book with this title and author already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	creator := actor
	if input.CreatedBy != "" && actor.IsAdmin() && input.CreatedBy != actor.ID {
		if !model.IsValidID(input.CreatedBy) {
			return nil, apperror.BadRequest("Invalid user ID format")
		}
		attributed, err := s.userRepo.FindByID(ctx, input.CreatedBy)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("User not found")
			}
			return nil, err
		}
		creator = attributed
	}

	book := &model.Book{
		Title:       title,
		Author:      author,
		Genre:       genres,
		Description: strings.TrimSpace(input.Description),
		CreatedByID: creator.ID,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexBook(book)
	}

	book.CreatedBy = *creator
	response := bookResponse(book, 0)
	return &response, nil
}

func (s *bookService) List(ctx context.Context, filter dto.BookFilter) (*dto.BookListResponse, error) {
	books, total, err := s.bookRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses, err := s.bookResponses(ctx, books)
	if err != nil {
		return nil, err
	}

	return &dto.BookListResponse{
		Books:      responses,
		Pagination: dto.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func (s *bookService) Get(ctx context.Context, id string, reviewPage dto.PageQuery) (*dto.BookDetailResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, err
	}

	reviews, totalReviews, err := s.reviewRepo.FindByBook(ctx, id, dto.ReviewFilter{PageQuery: reviewPage})
	if err != nil {
		return nil, err
	}

	ratings, err := s.bookRepo.AverageRatings(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	reviewResponses := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		reviewResponses = append(reviewResponses, reviewResponse(review, false))
	}

	return &dto.BookDetailResponse{
		BookResponse: bookResponse(book, roundRating(ratings[id])),
		Reviews:      reviewResponses,
		Pagination:   dto.NewPagination(reviewPage.Page, reviewPage.Limit, totalReviews),
	}, nil
}

// Search serves from the Meilisearch index when one is configured, falling
// back to database ILIKE matching otherwise or when the index errors.
func (s *bookService) Search(ctx context.Context, query string, page dto.PageQuery) (*dto.BookListResponse, error) {
	search := strings.TrimSpace(query)
	if len(search) < 2 {
		return nil, apperror.BadRequest("Search query must be at least 2 characters")
	}

	if s.search != nil {
		result, err := s.searchViaIndex(ctx, search, page)
		if err == nil {
			return result, nil
		}
		log.Printf("Books index search failed, falling back to database: %v", err)
	}

	books, total, err := s.bookRepo.Search(ctx, search, page)
	if err != nil {
		return nil, err
	}

	responses, err := s.bookResponses(ctx, books)
	if err != nil {
		return nil, err
	}

	return &dto.BookListResponse{
		Books:      responses,
		Pagination: dto.NewPagination(page.Page, page.Limit, total),
	}, nil
}

func (s *bookService) searchViaIndex(ctx context.Context, search string, page dto.PageQuery) (*dto.BookListResponse, error) {
	ids, total, err := s.search.SearchBooks(ctx, search, page)
	if err != nil {
		return nil, err
	}

	books, err := s.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Restore the index's relevance ordering.
	byID := make(map[string]*model.Book, len(books))
	for _, book := range books {
		byID[book.ID] = book
	}
	ordered := make([]*model.Book, 0, len(ids))
	for _, id := range ids {
		if book, ok := byID[id]; ok {
			ordered = append(ordered, book)
		}
	}

	responses, err := s.bookResponses(ctx, ordered)
	if err != nil {
		return nil, err
	}

	return &dto.BookListResponse{
		Books:      responses,
		Pagination: dto.NewPagination(page.Page, page.Limit, total),
	}, nil
}

func (s *bookService) bookResponses(ctx context.Context, books []*model.Book) ([]dto.BookResponse, error) {
	ids := make([]string, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID)
	}

	ratings, err := s.bookRepo.AverageRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, bookResponse(book, roundRating(ratings[book.ID])))
	}
	return responses, nil
}

func bookResponse(book *model.Book, averageRating float64) dto.BookResponse {
	return dto.BookResponse{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		Description:   book.Description,
		CreatedBy:     userRef(&book.CreatedBy),
		AverageRating: averageRating,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}

func userRef(user *model.User) dto.UserRef {
	return dto.UserRef{
		ID:       user.ID,
		Name:     user.Name,
		UserName: user.UserName,
	}
}

// roundRating keeps one decimal, matching how ratings are displayed.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
