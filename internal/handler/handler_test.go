package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"booknest.app/bookreviewapi/internal/dto"
	"booknest.app/bookreviewapi/internal/middleware"
	"booknest.app/bookreviewapi/internal/model"
	"booknest.app/bookreviewapi/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var setupOnce sync.Once

// setup puts gin in test mode and installs the custom validation rules on the
// binding engine, mirroring server startup.
func setup(t *testing.T) {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := validation.Register(v); err != nil {
				panic(err)
			}
		}
	})
}

type envelope struct {
	Result     json.RawMessage `json:"result"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func perform(router *gin.Engine, method, target, body string, modify ...func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range modify {
		fn(req)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var env envelope
	_ = json.Unmarshal(recorder.Body.Bytes(), &env)
	return recorder, env
}

// stubUserRepo backs the real auth middleware in handler tests.
type stubUserRepo struct {
	users map[string]*model.User
}

func (r *stubUserRepo) Create(context.Context, *model.User) error { return nil }

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUserName(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(context.Context, *model.User) error { return nil }

func (r *stubUserRepo) Delete(context.Context, string) error { return nil }

func (r *stubUserRepo) FindAll(context.Context, int, int) ([]*model.User, int64, error) {
	return nil, 0, nil
}

// authFor builds an auth middleware that recognizes the given user, plus a
// request modifier attaching their session cookie.
func authFor(t *testing.T, user *model.User) (*middleware.AuthMiddleware, func(*http.Request)) {
	t.Helper()

	auth := middleware.NewAuthMiddleware(&stubUserRepo{users: map[string]*model.User{user.ID: user}}, testSecret, false)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return auth, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
}

func testUser(role string) *model.User {
	return &model.User{
		ID:       model.NewID(),
		Name:     "Test User",
		Email:    "user@example.com",
		UserName: "testuser",
		Role:     role,
	}
}

// Fake services record what the handler passed through and return canned
// results.

type fakeUserService struct {
	user  *dto.UserResponse
	token string
	err   error

	signupInput *dto.SignupRequest
	loginInput  *dto.LoginRequest
	updateInput *dto.UpdateUserRequest
	listPage    dto.PageQuery
}

func (s *fakeUserService) Signup(_ context.Context, input dto.SignupRequest) (*dto.UserResponse, string, error) {
	s.signupInput = &input
	return s.user, s.token, s.err
}

func (s *fakeUserService) Login(_ context.Context, input dto.LoginRequest) (*dto.UserResponse, string, error) {
	s.loginInput = &input
	return s.user, s.token, s.err
}

func (s *fakeUserService) Update(_ context.Context, _ *model.User, input dto.UpdateUserRequest) (*dto.UserResponse, error) {
	s.updateInput = &input
	return s.user, s.err
}

func (s *fakeUserService) Delete(context.Context, *model.User) error { return s.err }

func (s *fakeUserService) List(_ context.Context, page dto.PageQuery) ([]dto.UserResponse, dto.Pagination, error) {
	s.listPage = page
	if s.err != nil {
		return nil, dto.Pagination{}, s.err
	}
	return []dto.UserResponse{*s.user}, dto.NewPagination(page.Page, page.Limit, 1), nil
}

type fakeBookService struct {
	book   *dto.BookResponse
	detail *dto.BookDetailResponse
	list   *dto.BookListResponse
	err    error

	createInput *dto.CreateBookRequest
	listFilter  dto.BookFilter
	getID       string
	getPage     dto.PageQuery
	searchQuery string
}

func (s *fakeBookService) Create(_ context.Context, _ *model.User, input dto.CreateBookRequest) (*dto.BookResponse, error) {
	s.createInput = &input
	return s.book, s.err
}

func (s *fakeBookService) List(_ context.Context, filter dto.BookFilter) (*dto.BookListResponse, error) {
	s.listFilter = filter
	return s.list, s.err
}

func (s *fakeBookService) Get(_ context.Context, id string, page dto.PageQuery) (*dto.BookDetailResponse, error) {
	s.getID = id
	s.getPage = page
	return s.detail, s.err
}

func (s *fakeBookService) Search(_ context.Context, query string, _ dto.PageQuery) (*dto.BookListResponse, error) {
	s.searchQuery = query
	return s.list, s.err
}

type fakeReviewService struct {
	review *dto.ReviewResponse
	list   *dto.ReviewListResponse
	err    error

	createBookID string
	createInput  *dto.ReviewRequest
	updateID     string
	deleteID     string
	listFilter   dto.ReviewFilter
}

func (s *fakeReviewService) Create(_ context.Context, _ *model.User, bookID string, input dto.ReviewRequest) (*dto.ReviewResponse, error) {
	s.createBookID = bookID
	s.createInput = &input
	return s.review, s.err
}

func (s *fakeReviewService) Update(_ context.Context, _ *model.User, reviewID string, input dto.ReviewRequest) (*dto.ReviewResponse, error) {
	s.updateID = reviewID
	return s.review, s.err
}

func (s *fakeReviewService) Delete(_ context.Context, _ *model.User, reviewID string) error {
	s.deleteID = reviewID
	return s.err
}

func (s *fakeReviewService) ListByBook(_ context.Context, _ string, filter dto.ReviewFilter) (*dto.ReviewListResponse, error) {
	s.listFilter = filter
	return s.list, s.err
}
