package handler

import (
	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/middleware"
	"booknest.app/bookreviewapi/internal/model"
	"booknest.app/bookreviewapi/internal/service"
	"booknest.app/bookreviewapi/pkg/apperror"
	"booknest.app/bookreviewapi/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	bookID := c.Param("id")
	if !model.IsValidID(bookID) {
		response.Error(c, apperror.BadRequest("Invalid book ID format"))
		return
	}

	user, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	review, err := h.service.Create(c.Request.Context(), user, bookID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, review, "Review created successfully")
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	reviewID := c.Param("id")
	if !model.IsValidID(reviewID) {
		response.Error(c, apperror.BadRequest("Invalid review ID format"))
		return
	}

	user, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	review, err := h.service.Update(c.Request.Context(), user, reviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, review, "Review updated successfully")
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID := c.Param("id")
	if !model.IsValidID(reviewID) {
		response.Error(c, apperror.BadRequest("Invalid review ID format"))
		return
	}

	user, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, reviewID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil, "Review deleted successfully")
}

func (h *ReviewHandler) ListByBook(c *gin.Context) {
	bookID := c.Param("id")
	if !model.IsValidID(bookID) {
		response.Error(c, apperror.BadRequest("Invalid book ID format"))
		return
	}

	page, err := parsePagination(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := dto.ReviewFilter{
		Sort:      c.Query("sort"),
		PageQuery: page,
	}

	reviews, err := h.service.ListByBook(c.Request.Context(), bookID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, reviews, "Reviews retrieved successfully")
}
