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
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type UserService interface {
	Signup(ctx context.Context, input dto.SignupRequest) (*dto.UserResponse, string, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.UserResponse, string, error)
	Update(ctx context.Context, actor *model.User, input dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor *model.User) error
	List(ctx context.Context, page dto.PageQuery) ([]dto.UserResponse, dto.Pagination, error)
}

type userService struct {
	repo     repository.UserRepository
	bookRepo repository.BookRepository
	search   SearchService
	secret   string
	tokenTTL time.Duration
}

func NewUserService(repo repository.UserRepository, bookRepo repository.BookRepository, search SearchService, secret string, tokenTTL time.Duration) UserService {
	return &userService{
		repo:     repo,
		bookRepo: bookRepo,
		search:   search,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *userService) Signup(ctx context.Context, input dto.SignupRequest) (*dto.UserResponse, string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	userName := strings.ToLower(strings.TrimSpace(input.UserName))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", apperror.BadRequest("Email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	if _, err := s.repo.FindByUserName(ctx, userName); err == nil {
		return nil, "", apperror.BadRequest("Username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		UserName:     userName,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return userResponse(user), token, nil
}

func (s *userService) Login(ctx context.Context, input dto.LoginRequest) (*dto.UserResponse, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if email == "" || input.Password == "" {
		return nil, "", apperror.BadRequest("Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperror.Unauthorized("Invalid credentials")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return userResponse(user), token, nil
}

func (s *userService) Update(ctx context.Context, actor *model.User, input dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if input.Name != nil {
		actor.Name = strings.TrimSpace(*input.Name)
	}

	if input.UserName != nil {
		userName := strings.ToLower(strings.TrimSpace(*input.UserName))
		if userName != actor.UserName {
			if _, err := s.repo.FindByUserName(ctx, userName); err == nil {
				return nil, apperror.BadRequest("Username already taken")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		actor.UserName = userName
	}

	if input.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		actor.PasswordHash = string(hashedPassword)
	}

	if err := s.repo.Update(ctx, actor); err != nil {
		return nil, err
	}

	return userResponse(actor), nil
}

// Delete removes the account. The user's books cascade away at the database
// level, so their index documents are pruned here as well.
func (s *userService) Delete(ctx context.Context, actor *model.User) error {
	var bookIDs []string
	if s.search != nil {
		var err error
		bookIDs, err = s.bookRepo.IDsByCreator(ctx, actor.ID)
		if err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, actor.ID); err != nil {
		return err
	}

	for _, id := range bookIDs {
		s.search.DeleteBook(id)
	}

	return nil
}

func (s *userService) List(ctx context.Context, page dto.PageQuery) ([]dto.UserResponse, dto.Pagination, error) {
	users, total, err := s.repo.FindAll(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, *userResponse(user))
	}

	return responses, dto.NewPagination(page.Page, page.Limit, total), nil
}

func (s *userService) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func userResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		UserName: user.UserName,
		Role:     user.Role,
	}
}
