package handler

import (
	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/service"
	"booknest.app/bookreviewapi/pkg/response"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	users service.UserService
}

func NewAdminHandler(users service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := parsePagination(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}

	users, pagination, err := h.users.List(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.UserListResponse{
		Users:      users,
		Pagination: pagination,
	}, "Users retrieved successfully")
}
