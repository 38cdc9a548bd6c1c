package dto

type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,strongpassword"`
	UserName string `json:"userName" binding:"required,min=3,max=30,username"`
}

// LoginRequest is checked by hand in the service ("Email and password are
// required" as a plain bad request), not by the schema validator.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the signup schema with every field optional; only
// supplied fields are applied.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Password *string `json:"password" binding:"omitempty,min=8,strongpassword"`
	UserName *string `json:"userName" binding:"omitempty,min=3,max=30,username"`
}

// UserResponse never carries the password hash or timestamps.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

// UserRef is the short author/creator projection embedded in book and
// review responses.
type UserRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserName string `json:"userName"`
}
