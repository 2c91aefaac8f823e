package middelware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	ContextClaims = "jwt_claims"
)

// UserLookup resolves the account behind a token
type UserLookup interface {
	GetUser(ctx context.Context, userID int) (*models.User, error)
}

// JWTManager handles JWT token operations
type JWTManager struct {
	Config            *models.Config
	Logger            logger.Logger
	Users             UserLookup
	BlacklistedTokens map[string]time.Time // Token revocation blacklist (logout)
	TokenMutex        sync.RWMutex
}

// NewJWTManager creates a new JWT manager. users may be nil, in which case tokens are
// trusted without checking the account.
func NewJWTManager(cfg *models.Config, log logger.Logger, users UserLookup) *JWTManager {
	return &JWTManager{
		Config:            cfg,
		Logger:            log,
		Users:             users,
		BlacklistedTokens: make(map[string]time.Time),
	}
}

// GenerateToken generates a JWT token for a user
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		CrewID:   user.CrewID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for user: %d", user.ID)
	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims. When a UserLookup is set the
// account must still exist with the same role and crew.
func (j *JWTManager) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Only HS256 is accepted
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return []byte(j.Config.JWTSecret), nil
	})
	if err != nil {
		j.Logger.Errorf("Failed to parse JWT token: %v", err)
		return nil, err
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		j.Logger.Error("Invalid JWT token")
		return nil, fmt.Errorf("invalid token")
	}

	if j.isRevoked(claims.ID) {
		j.Logger.Error("Token is blacklisted")
		return nil, fmt.Errorf("token has been revoked")
	}

	if j.Users != nil {
		user, err := j.Users.GetUser(ctx, claims.UserID)
		if err != nil {
			j.Logger.Errorf("Failed to verify user %d: %v", claims.UserID, err)
			return nil, fmt.Errorf("user verification failed")
		}
		if user.Role != claims.Role || !sameCrew(user.CrewID, claims.CrewID) {
			j.Logger.Warnf("Token for user %d no longer matches the account", claims.UserID)
			return nil, fmt.Errorf("account has changed, please log in again")
		}
		if issuedBeforePasswordChange(claims, user) {
			j.Logger.Warnf("Token for user %d predates a password change", claims.UserID)
			return nil, fmt.Errorf("password has changed, please log in again")
		}
	}

	j.Logger.Debugf("Successfully validated JWT token for user: %d", claims.UserID)
	return claims, nil
}

func issuedBeforePasswordChange(claims *models.JWTClaims, user *models.User) bool {
	if claims.IssuedAt == nil || user.PasswordChangedAt == nil {
		return false
	}
	return claims.IssuedAt.Time.Before(user.PasswordChangedAt.Truncate(time.Second))
}

func sameCrew(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (j *JWTManager) isRevoked(tokenID string) bool {
	j.TokenMutex.RLock()
	defer j.TokenMutex.RUnlock()
	expiry, exists := j.BlacklistedTokens[tokenID]
	return exists && expiry.After(time.Now())
}

// RevokeToken blacklists a token until it would have expired anyway (logout)
func (j *JWTManager) RevokeToken(claims *models.JWTClaims) {
	expiry := time.Now().Add(j.Config.JWTExpiresIn)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()
	j.BlacklistedTokens[claims.ID] = expiry

	j.Logger.Debugf("Revoked token for user %d: %s", claims.UserID, claims.ID)
}

// CleanupExpiredTokens removes expired tokens from blacklist
func (j *JWTManager) CleanupExpiredTokens() {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	now := time.Now()
	for tokenID, expiry := range j.BlacklistedTokens {
		if expiry.Before(now) {
			delete(j.BlacklistedTokens, tokenID)
		}
	}
	j.Logger.Debugf("Cleaned up expired blacklisted tokens")
}

// AuthMiddleware validates the bearer token from the Authorization header. Browsers cannot
// set headers on a websocket upgrade, so an access_token query parameter is accepted when
// the header is absent.
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := j.extractToken(c)
		if !ok {
			return
		}

		claims, err := j.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			j.Logger.Errorf("Token validation failed: %v", err)
			abortWith(c, http.StatusUnauthorized, "Invalid or expired token", "AuthenticationError", err.Error())
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)

		j.Logger.Debugf("User authenticated: %d", claims.UserID)
		c.Next()
	}
}

func (j *JWTManager) extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, true
		}
		j.Logger.Error("Missing Authorization header")
		abortWith(c, http.StatusUnauthorized, "Missing Authorization header", "AuthenticationError", "Authorization header is required")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		j.Logger.Error("Invalid Authorization header format")
		abortWith(c, http.StatusUnauthorized, "Invalid Authorization header format", "AuthenticationError", "Authorization header must be in format: Bearer <token>")
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// RequireRoles middleware lets the request through when the user has any of roles
func (j *JWTManager) RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			j.Logger.Error("JWT claims not found in context")
			abortWith(c, http.StatusUnauthorized, "Authentication required", "AuthenticationError", "User not authenticated")
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		j.Logger.Warnf("User %d with role %s denied, requires one of %v", claims.UserID, claims.Role, roles)
		abortWith(c, http.StatusForbidden, "Insufficient permissions", "AuthorizationError", fmt.Sprintf("Required role: %v", roles))
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware
func ClaimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}

func abortWith(c *gin.Context, status int, message, errType, details string) {
	c.AbortWithStatusJSON(status, models.Failure(status, message, errType, details))
}
