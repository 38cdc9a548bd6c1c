package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchService mirrors books into a Meilisearch index and answers search
// queries from it. The database stays the source of truth for book data;
// indexing failures are logged and never fail the originating request.
type SearchService interface {
	IndexBook(book *model.Book)
	DeleteBook(id string)
	SearchBooks(ctx context.Context, query string, page dto.PageQuery) ([]string, int64, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *searchService) initIndex() {
	filterable := []string{"genre", "author"}
	filterableInterface := make([]any, len(filterable))
	for i, v := range filterable {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("books").UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update books filterable attributes: %v", err)
	}

	sortable := []string{"created_at", "title", "author"}
	if _, err := s.client.Index("books").UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update books sortable attributes: %v", err)
	}
}

type meiliBookDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Genre       []string `json:"genre"`
	Description string   `json:"description"`
	CreatedAt   int64    `json:"created_at"`
}

// cleanForIndex strips any markup out of free-text fields before indexing.
func (s *searchService) cleanForIndex(text string) string {
	sanitized := s.sanitizer.Sanitize(text)
	cleaned := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleaned), " ")
}

func (s *searchService) IndexBook(book *model.Book) {
	doc := meiliBookDoc{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Genre:       book.Genre,
		Description: s.cleanForIndex(book.Description),
		CreatedAt:   book.CreatedAt.Unix(),
	}

	task, err := s.client.Index("books").AddDocuments([]meiliBookDoc{doc}, strPtr("id"))
	if err != nil {
		log.Printf("Failed to index book %s: %v", book.ID, err)
		return
	}
	log.Printf("Indexed book %s, task id: %d", book.ID, task.TaskUID)
}

// SearchBooks returns the ids of matching books in relevance order, plus the
// estimated total. The caller loads the rows from the database.
func (s *searchService) SearchBooks(ctx context.Context, query string, page dto.PageQuery) ([]string, int64, error) {
	result, err := s.client.Index("books").SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Offset:               int64(page.Offset()),
		Limit:                int64(page.Limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search books index: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		var id string
		if err := json.Unmarshal(hit["id"], &id); err != nil {
			log.Printf("Skipping malformed hit in books index: %v", err)
			continue
		}
		ids = append(ids, id)
	}

	return ids, result.EstimatedTotalHits, nil
}

func (s *searchService) DeleteBook(id string) {
	if _, err := s.client.Index("books").DeleteDocument(id); err != nil {
		log.Printf("Failed to remove book %s from index: %v", id, err)
	}
}

func strPtr(s string) *string {
	return &s
}
