package repository

import (
	"context"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByBookAndUser(ctx context.Context, bookID, userID string) (*model.Review, error)
	FindByBook(ctx context.Context, bookID string, filter dto.ReviewFilter) ([]*model.Review, int64, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Where("id = ?", id).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByBookAndUser(ctx context.Context, bookID, userID string) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByBook(ctx context.Context, bookID string, filter dto.ReviewFilter) ([]*model.Review, int64, error) {
	var reviews []*model.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Review{}).Where("book_id = ?", bookID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Order(reviewOrderClause(filter.Sort)).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, "id = ?", id).Error
}

func reviewOrderClause(sort string) string {
	switch sort {
	case "rating-high":
		return "rating DESC"
	case "rating-low":
		return "rating ASC"
	case "oldest":
		return "created_at ASC"
	default:
		return "created_at DESC"
	}
}
