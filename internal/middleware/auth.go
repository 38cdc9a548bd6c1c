package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"booknest.app/bookreviewapi/internal/model"
	"booknest.app/bookreviewapi/internal/repository"
	"booknest.app/bookreviewapi/pkg/apperror"
	"booknest.app/bookreviewapi/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the session token cookie. The cookie takes
// precedence over the Authorization header.
const SessionCookie = "access_token"

const userContextKey = "current_user"

const sessionMaxAge = 24 * 60 * 60 // seconds

type AuthMiddleware struct {
	userRepo   repository.UserRepository
	secret     string
	production bool
}

func NewAuthMiddleware(userRepo repository.UserRepository, secret string, production bool) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo:   userRepo,
		secret:     secret,
		production: production,
	}
}

// Authenticate verifies the session token and loads the acting user into the
// request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if tokenString == "" {
			abort(c, apperror.Unauthorized("Authentication required"))
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})

		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, apperror.Unauthorized("Session has expired, please login again"))
				return
			}
			abort(c, apperror.Unauthorized("Invalid authentication token"))
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject == "" {
			abort(c, apperror.Unauthorized("Invalid authentication token"))
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), claims.Subject)
		if err != nil {
			abort(c, apperror.NotFound("User not found"))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil || !user.IsAdmin() {
			abort(c, apperror.Unauthorized("Admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user placed by Authenticate.
func CurrentUser(c *gin.Context) (*model.User, error) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, apperror.Unauthorized("Authentication required")
	}

	user, ok := value.(*model.User)
	if !ok {
		return nil, apperror.Unauthorized("Authentication required")
	}

	return user, nil
}

// SetSessionCookie issues the session cookie. Cross-site attributes are only
// enabled in production, where the API is served over TLS.
func (m *AuthMiddleware) SetSessionCookie(c *gin.Context, token string) {
	m.setCookie(c, token, sessionMaxAge)
}

func (m *AuthMiddleware) ClearSessionCookie(c *gin.Context) {
	m.setCookie(c, "", -1)
}

func (m *AuthMiddleware) setCookie(c *gin.Context, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if m.production {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", m.production, true)
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}
