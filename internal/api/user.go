package api

import (
	"net/http" // HTTP status codes

	"inventory_sales/internal/middleware" // Current user
	"inventory_sales/internal/service"    // Identity service
	"inventory_sales/internal/visibility" // Projections

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateUserRequest is the body of a new identity
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	IsClient bool   `json:"is_client"`                   // Client capability
	IsSeller bool   `json:"is_seller"`                   // Seller capability
}

// ListUsersHandler returns a filtered page of identities
func ListUsersHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middleware.CurrentUser(c) // Resolved identity
		opts, err := parseList(c, userQuery, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		rows, total, err := users.List(c.Request.Context(), viewer, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		items := make([]gin.H, len(rows))
		for i, row := range rows {
			items[i] = visibility.User(row, viewer)
		}
		c.JSON(http.StatusOK, pageBody("users", items, total, opts))
	}
}

// GetUserHandler returns one identity
func GetUserHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		viewer := middleware.CurrentUser(c)
		u, err := users.Get(c.Request.Context(), viewer, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": visibility.User(*u, viewer)})
	}
}

// CreateUserHandler registers an identity on behalf of a seller
func CreateUserHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		viewer := middleware.CurrentUser(c)
		in := service.UserInput{Username: req.Username, Password: req.Password, IsClient: req.IsClient, IsSeller: req.IsSeller}
		u, err := users.Create(c.Request.Context(), viewer, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": visibility.User(*u, viewer)})
	}
}
