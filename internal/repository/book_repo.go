package repository

import (
	"context"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/model"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id string) (*model.Book, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Book, error)
	FindDuplicate(ctx context.Context, title, author string) (*model.Book, error)
	IDsByCreator(ctx context.Context, userID string) ([]string, error)
	FindAll(ctx context.Context, filter dto.BookFilter) ([]*model.Book, int64, error)
	Search(ctx context.Context, query string, page dto.PageQuery) ([]*model.Book, int64, error)
	AverageRatings(ctx context.Context, bookIDs []string) (map[string]float64, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// genreMatch tests a pattern against every element of the jsonb genre array.
const genreMatch = "EXISTS (SELECT 1 FROM jsonb_array_elements_text(genre) AS g WHERE g ILIKE ?)"

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("id = ?", id).
		First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByIDs loads the given books in no particular order; callers that care
// about ordering reorder the result themselves.
func (r *bookRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var books []*model.Book
	if err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("id IN ?", ids).
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// IDsByCreator lists the ids of every book a user created.
func (r *bookRepository) IDsByCreator(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("created_by_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindDuplicate looks for a case-insensitive exact match on both title and
// author. There is no backing uniqueness constraint, so this is best-effort
// under concurrent creation.
func (r *bookRepository) FindDuplicate(ctx context.Context, title, author string) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		Where("LOWER(title) = LOWER(?) AND LOWER(author) = LOWER(?)", title, author).
		First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindAll(ctx context.Context, filter dto.BookFilter) ([]*model.Book, int64, error) {
	var books []*model.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Book{})

	if filter.Title != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.Author != "" {
		query = query.Where("author ILIKE ?", "%"+filter.Author+"%")
	}
	if filter.Genre != "" {
		query = query.Where(genreMatch, "%"+filter.Genre+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("CreatedBy").
		Order(orderClause(filter.Sort, filter.Order)).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *bookRepository) Search(ctx context.Context, search string, page dto.PageQuery) ([]*model.Book, int64, error) {
	var books []*model.Book
	var total int64

	pattern := "%" + search + "%"
	query := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("title ILIKE ? OR author ILIKE ? OR "+genreMatch, pattern, pattern, pattern)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("CreatedBy").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *bookRepository) AverageRatings(ctx context.Context, bookIDs []string) (map[string]float64, error) {
	if len(bookIDs) == 0 {
		return map[string]float64{}, nil
	}

	var rows []struct {
		BookID string
		Avg    float64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("book_id, AVG(rating) AS avg").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	ratings := make(map[string]float64, len(rows))
	for _, row := range rows {
		ratings[row.BookID] = row.Avg
	}
	return ratings, nil
}

// orderClause translates the whitelisted sort fields; anything else falls
// back to newest first.
func orderClause(sort, order string) string {
	column := ""
	switch sort {
	case "title":
		column = "title"
	case "author":
		column = "author"
	case "createdAt":
		column = "created_at"
	}
	if column == "" {
		return "created_at DESC"
	}

	if order == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}
