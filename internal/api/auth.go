package api

import (
	"net/http" // HTTP status codes
	"time"     // Token lifetimes

	"inventory_sales/internal/middleware" // Request scoped logger
	"inventory_sales/internal/service"    // Identity service
	"inventory_sales/internal/utils"      // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// TokenRequest carries login credentials
type TokenRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"` // Refresh token must be provided
}

// VerifyRequest carries any issued token
type VerifyRequest struct {
	Token string `json:"token" binding:"required"` // Token must be provided
}

// TokenSettings configures token issuing
type TokenSettings struct {
	Secret     string        // HMAC secret
	AccessTTL  time.Duration // Access token lifetime
	RefreshTTL time.Duration // Refresh token lifetime
}

// TokenHandler exchanges credentials for an access and a refresh token
func TokenHandler(users *service.Users, ts TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		user, err := users.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			middleware.Logger(c).WithField("username", req.Username).Warn("Login failed") // Log failed login
			respondError(c, err)
			return
		}
		access, err := utils.GenerateJWT(user.ID, utils.AccessToken, ts.Secret, ts.AccessTTL)
		if err != nil {
			respondError(c, err)
			return
		}
		refresh, err := utils.GenerateJWT(user.ID, utils.RefreshToken, ts.Secret, ts.RefreshTTL)
		if err != nil {
			respondError(c, err)
			return
		}
		middleware.Logger(c).WithField("user_id", user.ID).Info("Token issued") // Log successful login
		c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
	}
}

// RefreshHandler issues a new access token for a valid refresh token
func RefreshHandler(users *service.Users, ts TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		claims, err := utils.ParseJWT(req.Refresh, utils.RefreshToken, ts.Secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// The identity must still exist
		user, err := users.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		access, err := utils.GenerateJWT(user.ID, utils.AccessToken, ts.Secret, ts.AccessTTL)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

// VerifyHandler answers 200 for a valid access or refresh token and 401 otherwise
func VerifyHandler(ts TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		if _, err := utils.ParseJWT(req.Token, utils.AccessToken, ts.Secret); err == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		if _, err := utils.ParseJWT(req.Token, utils.RefreshToken, ts.Secret); err == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	}
}
