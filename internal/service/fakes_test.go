package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mimic the database-level behavior the
// services rely on: record-not-found errors, the reviews composite unique
// index, and newest-first default ordering.

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUserName(_ context.Context, userName string) (*model.User, error) {
	for _, user := range r.users {
		if user.UserName == userName {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, offset, limit int) ([]*model.User, int64, error) {
	all := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	return paginate(all, offset, limit), total, nil
}

type fakeBookRepo struct {
	books   map[string]*model.Book
	users   *fakeUserRepo
	ratings map[string]float64
}

func newFakeBookRepo(users *fakeUserRepo) *fakeBookRepo {
	return &fakeBookRepo{
		books:   make(map[string]*model.Book),
		users:   users,
		ratings: make(map[string]float64),
	}
}

func (r *fakeBookRepo) Create(_ context.Context, book *model.Book) error {
	if book.ID == "" {
		book.ID = model.NewID()
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	clone := *book
	r.books[book.ID] = &clone
	return nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id string) (*model.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *book
	r.preloadCreator(&clone)
	return &clone, nil
}

func (r *fakeBookRepo) FindByIDs(_ context.Context, ids []string) ([]*model.Book, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var books []*model.Book
	for id, book := range r.books {
		if want[id] {
			clone := *book
			r.preloadCreator(&clone)
			books = append(books, &clone)
		}
	}
	return books, nil
}

func (r *fakeBookRepo) IDsByCreator(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for id, book := range r.books {
		if book.CreatedByID == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeBookRepo) FindDuplicate(_ context.Context, title, author string) (*model.Book, error) {
	for _, book := range r.books {
		if strings.EqualFold(book.Title, title) && strings.EqualFold(book.Author, author) {
			clone := *book
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookRepo) FindAll(_ context.Context, filter dto.BookFilter) ([]*model.Book, int64, error) {
	matched := make([]*model.Book, 0, len(r.books))
	for _, book := range r.books {
		if filter.Title != "" && !containsFold(book.Title, filter.Title) {
			continue
		}
		if filter.Author != "" && !containsFold(book.Author, filter.Author) {
			continue
		}
		if filter.Genre != "" && !genreMatches(book.Genre, filter.Genre) {
			continue
		}
		clone := *book
		r.preloadCreator(&clone)
		matched = append(matched, &clone)
	}

	sortBooks(matched, filter.Sort, filter.Order)
	total := int64(len(matched))
	return paginate(matched, filter.Offset(), filter.Limit), total, nil
}

func (r *fakeBookRepo) Search(_ context.Context, query string, page dto.PageQuery) ([]*model.Book, int64, error) {
	matched := make([]*model.Book, 0, len(r.books))
	for _, book := range r.books {
		if containsFold(book.Title, query) || containsFold(book.Author, query) || genreMatches(book.Genre, query) {
			clone := *book
			r.preloadCreator(&clone)
			matched = append(matched, &clone)
		}
	}

	sortBooks(matched, "", "")
	total := int64(len(matched))
	return paginate(matched, page.Offset(), page.Limit), total, nil
}

func (r *fakeBookRepo) AverageRatings(_ context.Context, bookIDs []string) (map[string]float64, error) {
	result := make(map[string]float64)
	for _, id := range bookIDs {
		if avg, ok := r.ratings[id]; ok {
			result[id] = avg
		}
	}
	return result, nil
}

func (r *fakeBookRepo) preloadCreator(book *model.Book) {
	if r.users == nil {
		return
	}
	if creator, ok := r.users.users[book.CreatedByID]; ok {
		book.CreatedBy = *creator
	}
}

// fakeSearchService records index traffic and serves canned hits.
type fakeSearchService struct {
	indexed []string
	deleted []string

	ids       []string
	total     int64
	searchErr error
	lastQuery string
}

func (s *fakeSearchService) IndexBook(book *model.Book) {
	s.indexed = append(s.indexed, book.ID)
}

func (s *fakeSearchService) DeleteBook(id string) {
	s.deleted = append(s.deleted, id)
}

func (s *fakeSearchService) SearchBooks(_ context.Context, query string, _ dto.PageQuery) ([]string, int64, error) {
	s.lastQuery = query
	if s.searchErr != nil {
		return nil, 0, s.searchErr
	}
	return s.ids, s.total, nil
}

type fakeReviewRepo struct {
	reviews map[string]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*model.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	for _, existing := range r.reviews {
		if existing.BookID == review.BookID && existing.UserID == review.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if review.ID == "" {
		review.ID = model.NewID()
	}
	now := time.Now()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id string) (*model.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *fakeReviewRepo) FindByBookAndUser(_ context.Context, bookID, userID string) (*model.Review, error) {
	for _, review := range r.reviews {
		if review.BookID == bookID && review.UserID == userID {
			clone := *review
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReviewRepo) FindByBook(_ context.Context, bookID string, filter dto.ReviewFilter) ([]*model.Review, int64, error) {
	matched := make([]*model.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if review.BookID == bookID {
			clone := *review
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		switch filter.Sort {
		case "rating-high":
			return matched[i].Rating > matched[j].Rating
		case "rating-low":
			return matched[i].Rating < matched[j].Rating
		case "oldest":
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		default:
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
	})

	total := int64(len(matched))
	return paginate(matched, filter.Offset(), filter.Limit), total, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	review.UpdatedAt = time.Now()
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id string) error {
	delete(r.reviews, id)
	return nil
}

func paginate[T any](items []*T, offset, limit int) []*T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func genreMatches(genres []string, query string) bool {
	for _, genre := range genres {
		if containsFold(genre, query) {
			return true
		}
	}
	return false
}

func sortBooks(books []*model.Book, sortField, order string) {
	sort.Slice(books, func(i, j int) bool {
		var less bool
		switch sortField {
		case "title":
			less = books[i].Title < books[j].Title
		case "author":
			less = books[i].Author < books[j].Author
		default:
			// Newest first is the default ordering.
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
		if order != "asc" {
			return !less
		}
		return less
	})
}
