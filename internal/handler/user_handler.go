package handler

import (
	"time"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/middleware"
	"booknest.app/bookreviewapi/internal/service"
	"booknest.app/bookreviewapi/pkg/apperror"
	"booknest.app/bookreviewapi/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type UserHandler struct {
	service   service.UserService
	auth      *middleware.AuthMiddleware
	rdb       *redis.Client
	rateLimit time.Duration
}

func NewUserHandler(svc service.UserService, auth *middleware.AuthMiddleware, rdb *redis.Client, rateLimit time.Duration) *UserHandler {
	return &UserHandler{
		service:   svc,
		auth:      auth,
		rdb:       rdb,
		rateLimit: rateLimit,
	}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if ok := h.allow(c, "signup"); !ok {
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auth.SetSessionCookie(c, token)
	response.Created(c, user, "User created successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if ok := h.allow(c, "login"); !ok {
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auth.SetSessionCookie(c, token)
	response.Success(c, user, "Logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.auth.ClearSessionCookie(c)
	response.Success(c, nil, "Logged out successfully")
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		UserName: user.UserName,
		Role:     user.Role,
	}, "User retrieved successfully")
}

func (h *UserHandler) Update(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, updated, "User updated successfully")
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user); err != nil {
		response.Error(c, err)
		return
	}

	h.auth.ClearSessionCookie(c)
	response.Success(c, nil, "User deleted successfully")
}

// allow applies the per-IP auth rate limit, writing the error response
// itself when the caller has to back off.
func (h *UserHandler) allow(c *gin.Context, action string) bool {
	allowed, err := service.CheckAndSetRateLimit(c.Request.Context(), h.rdb, c.ClientIP(), action, h.rateLimit)
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !allowed {
		response.Error(c, apperror.TooManyRequests("Too many attempts, please try again later"))
		return false
	}
	return true
}
