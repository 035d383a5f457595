package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory_sales/internal/domain"
	"inventory_sales/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubResolver map[uint]*domain.User

func (s stubResolver) Resolve(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, domain.Unauthenticated("user no longer exists")
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	users := stubResolver{1: {ID: 1, Username: "seller", IsSeller: true}, 2: {ID: 2, Username: "client", IsClient: true}}
	sellerToken, err := utils.GenerateJWT(1, utils.AccessToken, "s", time.Minute)
	require.NoError(t, err)
	clientToken, err := utils.GenerateJWT(2, utils.AccessToken, "s", time.Minute)
	require.NoError(t, err)
	ghostToken, err := utils.GenerateJWT(3, utils.AccessToken, "s", time.Minute)
	require.NoError(t, err)

	t.Run("Optional", func(t *testing.T) {
		r := newRouter(OptionalJWTAuthMiddleware("s", users))
		require.Equal(t, "anonymous", get(r, "").Body.String())
		require.Equal(t, "seller", get(r, sellerToken).Body.String())
		require.Equal(t, http.StatusUnauthorized, get(r, "bad").Code)
		require.Equal(t, http.StatusUnauthorized, get(r, ghostToken).Code)
	})

	t.Run("Required", func(t *testing.T) {
		r := newRouter(JWTAuthMiddleware("s", users))
		require.Equal(t, http.StatusUnauthorized, get(r, "").Code)
		require.Equal(t, "client", get(r, clientToken).Body.String())
	})

	t.Run("SellerOnly", func(t *testing.T) {
		r := newRouter(OptionalJWTAuthMiddleware("s", users), SellerOnlyMiddleware())
		require.Equal(t, http.StatusUnauthorized, get(r, "").Code)
		require.Equal(t, http.StatusForbidden, get(r, clientToken).Code)
		require.Equal(t, http.StatusOK, get(r, sellerToken).Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newRouter(RequestIDMiddleware())

	w := get(r, "")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	require.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, id, w.Header().Get(RequestIDHeader))
}
