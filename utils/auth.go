// utils/auth.go
package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/gate"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenCookie = "token"

	revokedPrefix  = "session:revoked:"
	sessionContext = "session"
	claimsContext  = "claims"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func tokenTTL() time.Duration {
	return time.Duration(config.App.Auth.ExpiryHours) * time.Hour
}

// GenerateToken signs a session token carrying the user's role claim.
func GenerateToken(userID, email, role string) (string, *Claims, error) {
	secret := config.App.Auth.JWTSecret
	if secret == "" {
		return "", nil, errors.New("JWT_SECRET not set")
	}

	now := time.Now()
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL())),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return signed, claims, err
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.App.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RevokeToken blocks the token until it would have expired anyway.
func RevokeToken(c *gin.Context, claims *Claims) {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	config.AppCache.SetJSON(c.Request.Context(), revokedPrefix+claims.ID, true, ttl)
}

var errAccountNotFound = errors.New("account not found")

// account is the part of a users row that decides access.
type account struct {
	Role     string
	IsActive bool
}

// loadAccount reads the current role and active flag, so role changes and
// deactivations made by any process reach tokens issued before them.
func loadAccount(ctx context.Context, userID string) (*account, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, errAccountNotFound
	}
	var a account
	err := config.DB.WithContext(ctx).
		Table("users").
		Select("role", "is_active").
		Where("id = ?", userID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func bearerToken(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")
	if len(tokenString) > 7 && strings.EqualFold(tokenString[0:6], "BEARER") {
		return strings.TrimSpace(tokenString[7:])
	}
	if tokenString != "" {
		return tokenString
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// Auth middleware
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Autenticação necessária")
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Sessão inválida")
			return
		}

		ctx := c.Request.Context()
		if config.AppCache.Exists(ctx, revokedPrefix+claims.ID) {
			RespondWithError(c, http.StatusUnauthorized, "Sessão encerrada")
			return
		}

		role := claims.Role
		if config.DB != nil {
			acc, err := loadAccount(ctx, claims.Subject)
			switch {
			case errors.Is(err, errAccountNotFound):
				RespondWithError(c, http.StatusUnauthorized, "Sessão inválida")
				return
			case err != nil:
				log.Printf("Error loading account %s: %v", claims.Subject, err)
				RespondWithError(c, http.StatusInternalServerError, "Erro ao validar sessão")
				return
			case !acc.IsActive:
				RespondWithError(c, http.StatusForbidden, "Conta desativada")
				return
			}
			role = acc.Role
		}

		c.Set("userId", claims.Subject)
		c.Set(claimsContext, claims)
		c.Set(sessionContext, &gate.Session{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   gate.ResolveRole(role),
		})

		c.Next()
	}
}

// CurrentSession returns the session placed by AuthMiddleware, or nil.
func CurrentSession(c *gin.Context) *gate.Session {
	v, ok := c.Get(sessionContext)
	if !ok {
		return nil
	}
	s, _ := v.(*gate.Session)
	return s
}

func CurrentClaims(c *gin.Context) *Claims {
	v, ok := c.Get(claimsContext)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// CurrentUserID parses the session subject.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	s := CurrentSession(c)
	if s == nil {
		return uuid.Nil, errors.New("no session")
	}
	id, err := uuid.Parse(s.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session subject: %w", err)
	}
	return id, nil
}

// RequireView rejects callers whose role may not reach view. Unlike page
// navigation, API calls never fall back silently.
func RequireView(view gate.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil {
			RespondWithError(c, http.StatusUnauthorized, "Autenticação necessária")
			return
		}
		if !gate.Allows(s.Role, view) {
			RespondWithError(c, http.StatusForbidden, "Acesso negado")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil || s.Role != gate.RoleAdmin {
			RespondWithError(c, http.StatusForbidden, "Acesso negado")
			return
		}
		c.Next()
	}
}
