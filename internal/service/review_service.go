package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/model"
	"booknest.app/bookreviewapi/internal/repository"
	"booknest.app/bookreviewapi/pkg/apperror"
	"gorm.io/gorm"
)

// editWindow is how long a review stays editable after creation.
const editWindow = 30 * 24 * time.Hour

type ReviewService interface {
	Create(ctx context.Context, actor *model.User, bookID string, input dto.ReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *model.User, reviewID string, input dto.ReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *model.User, reviewID string) error
	ListByBook(ctx context.Context, bookID string, filter dto.ReviewFilter) (*dto.ReviewListResponse, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

func (s *reviewService) Create(ctx context.Context, actor *model.User, bookID string, input dto.ReviewRequest) (*dto.ReviewResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, err
	}

	if book.CreatedByID == actor.ID {
		return nil, apperror.BadRequest("You cannot review your own book")
	}

	if _, err := s.reviewRepo.FindByBookAndUser(ctx, bookID, actor.ID); err == nil {
		return nil, apperror.BadRequest("You have already reviewed this book")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		BookID:  bookID,
		UserID:  actor.ID,
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// The composite unique index closes the check-then-create race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.BadRequest("You have already reviewed this book")
		}
		return nil, err
	}

	review.User = *actor
	review.Book = *book

	response := reviewResponse(review, true)
	return &response, nil
}

func (s *reviewService) Update(ctx context.Context, actor *model.User, reviewID string, input dto.ReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Review not found")
		}
		return nil, err
	}

	if review.UserID != actor.ID {
		return nil, apperror.Unauthorized("You can only update your own reviews")
	}

	if time.Since(review.CreatedAt) > editWindow {
		return nil, apperror.BadRequest("Reviews older than 30 days cannot be updated")
	}

	review.Rating = input.Rating
	review.Comment = strings.TrimSpace(input.Comment)

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	response := reviewResponse(review, true)
	return &response, nil
}

func (s *reviewService) Delete(ctx context.Context, actor *model.User, reviewID string) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Review not found")
		}
		return err
	}

	// Only the author may delete. Admins get no override here.
	if review.UserID != actor.ID {
		return apperror.Unauthorized("You can only delete your own reviews")
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}

func (s *reviewService) ListByBook(ctx context.Context, bookID string, filter dto.ReviewFilter) (*dto.ReviewListResponse, error) {
	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.FindByBook(ctx, bookID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, reviewResponse(review, false))
	}

	return &dto.ReviewListResponse{
		Reviews:    responses,
		Pagination: dto.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func reviewResponse(review *model.Review, withBook bool) dto.ReviewResponse {
	response := dto.ReviewResponse{
		ID:        review.ID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		User:      userRef(&review.User),
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}

	if withBook {
		response.Book = &dto.BookRef{
			ID:     review.Book.ID,
			Title:  review.Book.Title,
			Author: review.Book.Author,
		}
	}

	return response
}
