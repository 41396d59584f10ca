package api

import (
	"net/http" // HTTP status codes

	"makerspace/internal/middleware" // Session cookie name
	"makerspace/internal/service"    // Business operations
	"makerspace/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`           // Login email
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt reads at most 72 bytes
	FullName string `json:"full_name" binding:"required,max=255"`     // Display name
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Login email
	Password string `json:"password" binding:"required"` // Plain password
}

// AuthResponse carries the session token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates an account with a pending member profile
func RegisterHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		profile, err := deps.Service.Register(c.Request.Context(), service.Registration{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, deps, usersKey) // New profile shows up in the admin list
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "id": profile.ID})
	}
}

// LoginHandler authenticates a user, returns a JWT token and sets the session cookie
func LoginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := deps.Service.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, deps.JWTSecret, deps.JWTTTL)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Token generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		setCookie(c, deps, middleware.SessionCookie, token, int(deps.JWTTTL.Seconds()))
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler clears the session cookie
func LogoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		setCookie(c, deps, middleware.SessionCookie, "", -1)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// setCookie writes an HTTP-only, same-site cookie; maxAge < 0 deletes it
func setCookie(c *gin.Context, deps Deps, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", deps.SecureCookies, true)
}
