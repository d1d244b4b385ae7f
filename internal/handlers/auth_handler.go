package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gatherly/internal/middleware"
	"github.com/joshua-takyi/gatherly/internal/services"
)

// Login exchanges email and password for a Supabase session and stores the
// tokens in http-only cookies.
func Login(as *services.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		tokenRes, err := as.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "message": "invalid email or password"})
			return
		}

		middleware.SetSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn, secureCookies)

		// Return user info but not tokens
		c.JSON(http.StatusOK, gin.H{
			"user": tokenRes.User,
		})
	}
}

// Refresh renews the session from the refresh_token cookie.
func Refresh(as *services.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token not found"})
			return
		}

		tokenRes, err := as.RefreshToken(c.Request.Context(), refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "message": "session refresh failed"})
			return
		}

		middleware.SetSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn, secureCookies)
		c.JSON(http.StatusOK, gin.H{
			"user":       tokenRes.User,
			"expires_in": tokenRes.ExpiresIn,
		})
	}
}

// Logout handler
func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Clear all auth cookies
		c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secureCookies, true)
		c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", secureCookies, true)

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}
