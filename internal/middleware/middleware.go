package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/gatherly/internal/helpers"
	"github.com/joshua-takyi/gatherly/internal/services"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	userKey = "user"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"caller", GetCaller(c),
		)
	}
}

// ErrorHandler logs errors attached with c.Error and answers with a generic
// 500 when the handler has not written a response yet.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if !c.Writer.Written() {
				// Don't return error details in production
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}
	}
}

// AuthMiddleware resolves the caller identity from a bearer token or the
// access_token cookie. When the token is rejected and auth is non-nil, a
// refresh_token cookie is exchanged for a new session first.
func AuthMiddleware(validator *helpers.TokenValidator, auth *services.AuthService, logger *slog.Logger, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := helpers.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			cookie, err := c.Cookie(AccessTokenCookie)
			if err != nil || cookie == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "access token not found in Authorization header or cookie",
				})
				return
			}
			token = cookie
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			refreshToken, refreshErr := c.Cookie(RefreshTokenCookie)
			if refreshErr != nil || auth == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   err.Error(),
				})
				return
			}

			tokenRes, refreshErr := auth.RefreshToken(c.Request.Context(), refreshToken)
			if refreshErr != nil {
				logger.Error("Token refresh failed", "error", refreshErr)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Token expired and refresh failed",
				})
				return
			}

			SetSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn, secureCookies)
			logger.Info("Token refreshed successfully",
				"user_id", tokenRes.User.ID,
				"expires_in", tokenRes.ExpiresIn,
			)

			claims, err = validator.ValidateToken(tokenRes.AccessToken)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Refreshed token validation failed",
				})
				return
			}
		}

		enhanced := helpers.NewEnhancedClaims(claims)
		logger.Debug("Caller authenticated", "user_id", enhanced.UserID, "role", enhanced.GetSafeRole())

		c.Set(userKey, enhanced)
		c.Next()
	}
}

// SetSessionCookies stores the access and refresh tokens as http-only
// cookies.
func SetSessionCookies(c *gin.Context, accessToken, refreshToken string, expiresIn int, secure bool) {
	c.SetCookie(AccessTokenCookie, accessToken, expiresIn, "/", "", secure, true)
	// Refresh token - expires in 30 days
	c.SetCookie(RefreshTokenCookie, refreshToken, 3600*24*30, "/", "", secure, true)
}

// GetCaller returns the authenticated caller id, or "" when the request has
// not passed AuthMiddleware.
func GetCaller(c *gin.Context) string {
	user, exists := c.Get(userKey)
	if !exists {
		return ""
	}
	claims, ok := user.(*helpers.EnhancedClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}

// SetCaller attaches claims for subject to the context. Tests use it in place
// of a signed token.
func SetCaller(c *gin.Context, subject string) {
	claims := &helpers.CustomClaims{}
	claims.Subject = subject
	c.Set(userKey, helpers.NewEnhancedClaims(claims))
}
