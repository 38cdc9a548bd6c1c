package handler

import (
	"strings"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/middleware"
	"booknest.app/bookreviewapi/internal/model"
	"booknest.app/bookreviewapi/internal/service"
	"booknest.app/bookreviewapi/pkg/apperror"
	"booknest.app/bookreviewapi/pkg/response"
	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	service service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{service: svc}
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	user, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, book, "Book created successfully")
}

func (h *BookHandler) List(c *gin.Context) {
	page, err := parsePagination(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := dto.BookFilter{
		Title:     strings.TrimSpace(c.Query("title")),
		Author:    strings.TrimSpace(c.Query("author")),
		Genre:     strings.TrimSpace(c.Query("genre")),
		Sort:      c.Query("sort"),
		Order:     c.Query("order"),
		PageQuery: page,
	}

	books, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, books, "Books retrieved successfully")
}

func (h *BookHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !model.IsValidID(id) {
		response.Error(c, apperror.BadRequest("Invalid book ID format"))
		return
	}

	// Book detail pages the embedded reviews with their own limit key.
	page, err := parsePagination(c, "reviewLimit")
	if err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.Get(c.Request.Context(), id, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, book, "Book retrieved successfully")
}

func (h *BookHandler) Search(c *gin.Context) {
	page, err := parsePagination(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}

	books, err := h.service.Search(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, books, "Search results retrieved successfully")
}
