package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory_sales/internal/domain"
	"inventory_sales/internal/repository"
	"inventory_sales/internal/service"
	"inventory_sales/internal/testutil"
	"inventory_sales/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testServer struct {
	t      *testing.T
	conn   *gorm.DB
	router *gin.Engine
	users  *service.Users
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn := testutil.NewDB(t)
	repo := repository.New(conn)
	users := service.NewUsers(repo)
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:      conn,
		Catalog: service.NewCatalog(repo, nil),
		Sales:   service.NewSales(repo, nil),
		Reports: service.NewReports(repo, nil, time.Minute),
		Users:   users,
		Lists:   NewListCache(nil, time.Minute),
		Tokens:  TokenSettings{Secret: testSecret, AccessTTL: time.Minute, RefreshTTL: time.Hour},
	})
	return &testServer{t: t, conn: conn, router: r, users: users}
}

// token issues an access token for u, empty for anonymous requests
func (s *testServer) token(u *domain.User) string {
	if u == nil {
		return ""
	}
	tok, err := utils.GenerateJWT(u.ID, utils.AccessToken, testSecret, time.Minute)
	require.NoError(s.t, err)
	return tok
}

// do sends a JSON request and decodes the JSON response body
func (s *testServer) do(method, path string, as *domain.User, body any) (int, map[string]any) {
	s.t.Helper()
	return s.doToken(method, path, s.token(as), body)
}

func (s *testServer) doToken(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

type world struct {
	seller, otherSeller, buyer *domain.User
	pm                         *domain.PaymentMethod
	product                    *domain.Product
}

func seed(t *testing.T, s *testServer) world {
	cat := testutil.Category(t, s.conn, "office")
	return world{
		seller:      testutil.User(t, s.conn, "seller", true, false),
		otherSeller: testutil.User(t, s.conn, "otherseller", true, false),
		buyer:       testutil.User(t, s.conn, "buyer", false, true),
		pm:          testutil.PaymentMethod(t, s.conn, "card", "10"),
		product:     testutil.Product(t, s.conn, "pen", "10", 5, cat.ID),
	}
}

func TestProductVisibility(t *testing.T) {
	s := newTestServer(t)
	w := seed(t, s)

	code, body := s.do(http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, code)
	items := body["products"].([]any)
	require.Len(t, items, 1)
	view := items[0].(map[string]any)
	require.NotContains(t, view, "purchase_price")
	require.NotContains(t, view, "quantity")
	require.Equal(t, "10.00", view["sale_price"])

	code, body = s.do(http.MethodGet, "/api/v1/products", w.buyer, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotContains(t, body["products"].([]any)[0], "purchase_price")

	code, body = s.do(http.MethodGet, "/api/v1/products/1", w.seller, nil)
	require.Equal(t, http.StatusOK, code)
	product := body["product"].(map[string]any)
	require.Equal(t, "5.00", product["purchase_price"])
	require.EqualValues(t, 5, product["quantity"])
}

func TestListQueries(t *testing.T) {
	s := newTestServer(t)
	w := seed(t, s)

	// Staff-only filters are ignored for public viewers
	code, body := s.do(http.MethodGet, "/api/v1/products?purchase_price__gt=1000", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["total"])

	code, body = s.do(http.MethodGet, "/api/v1/products?purchase_price__gt=1000", w.seller, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 0, body["total"])

	code, body = s.do(http.MethodGet, "/api/v1/products?name__contains=PE&unknown=1&ordering=-sale_price", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["total"])
	require.EqualValues(t, 20, body["page_size"])

	code, body = s.do(http.MethodGet, "/api/v1/products?sale_price__lt=abc", nil, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "sale_price__lt", body["field"])

	code, _ = s.do(http.MethodGet, "/api/v1/sales?sale_date=2024-13-01", w.seller, nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestSaleEndpoints(t *testing.T) {
	s := newTestServer(t)
	w := seed(t, s)
	newSale := gin.H{
		"payment_method": w.pm.ID,
		"seller":         w.seller.ID,
		"buyer":          w.buyer.ID,
		"items":          []gin.H{{"product": w.product.ID, "quantity": 2}},
	}

	t.Run("AnonymousListIsEmpty", func(t *testing.T) {
		code, body := s.do(http.MethodGet, "/api/v1/sales", nil, nil)
		require.Equal(t, http.StatusOK, code)
		require.Empty(t, body["sales"])
		require.EqualValues(t, 0, body["total"])
	})

	t.Run("RejectsServerFields", func(t *testing.T) {
		withTotal := gin.H{"total": "1.00"}
		for k, v := range newSale {
			withTotal[k] = v
		}
		code, body := s.do(http.MethodPost, "/api/v1/sales", w.seller, withTotal)
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "total", body["field"])
	})

	var saleID float64
	t.Run("Create", func(t *testing.T) {
		code, body := s.do(http.MethodPost, "/api/v1/sales", w.seller, newSale)
		require.Equal(t, http.StatusCreated, code)
		sale := body["sale"].(map[string]any)
		require.Equal(t, "22.00", sale["total"])
		require.Equal(t, domain.Today().Format("2006-01-02"), sale["sale_date"])
		saleID = sale["id"].(float64)

		require.Equal(t, 3, testutil.Reload(t, s.conn, w.product.ID).Quantity)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		over := gin.H{}
		for k, v := range newSale {
			over[k] = v
		}
		over["items"] = []gin.H{{"product": w.product.ID, "quantity": 4}}
		code, body := s.do(http.MethodPost, "/api/v1/sales", w.seller, over)
		require.Equal(t, http.StatusBadRequest, code)
		require.EqualValues(t, 3, body["available"])
	})

	t.Run("Forbidden", func(t *testing.T) {
		code, _ := s.do(http.MethodPost, "/api/v1/sales", w.otherSeller, newSale)
		require.Equal(t, http.StatusForbidden, code)

		code, _ = s.do(http.MethodPost, "/api/v1/sales", nil, newSale)
		require.Equal(t, http.StatusUnauthorized, code)

		code, _ = s.do(http.MethodGet, "/api/v1/sales/1", w.otherSeller, nil)
		require.Equal(t, http.StatusForbidden, code)

		code, _ = s.do(http.MethodGet, "/api/v1/sales/999", w.seller, nil)
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("ParticipantsSeeIt", func(t *testing.T) {
		code, body := s.do(http.MethodGet, "/api/v1/sales", w.buyer, nil)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, body["sales"], 1)

		code, body = s.do(http.MethodGet, "/api/v1/sales", w.otherSeller, nil)
		require.Equal(t, http.StatusOK, code)
		require.Empty(t, body["sales"])
	})

	t.Run("Stats", func(t *testing.T) {
		code, body := s.do(http.MethodGet, "/api/v1/stats/most-sold-product", nil, nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, true, body["found"])
		require.Equal(t, "PEN", body["product"].(map[string]any)["name"])

		code, body = s.do(http.MethodGet, "/api/v1/stats/most-used-payment-method", nil, nil)
		require.Equal(t, http.StatusOK, code)
		require.NotContains(t, body["payment_method"], "interest_rate")
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		code, _ := s.do(http.MethodPut, "/api/v1/sales/1", w.seller, gin.H{"sale_date": "2020-01-01"})
		require.Equal(t, http.StatusBadRequest, code)

		code, _ = s.do(http.MethodDelete, "/api/v1/sales/1", w.buyer, nil)
		require.Equal(t, http.StatusForbidden, code)

		code, _ = s.do(http.MethodDelete, "/api/v1/sales/1", w.seller, nil)
		require.Equal(t, http.StatusNoContent, code)
		require.EqualValues(t, 1, saleID)
	})
}

func TestEmptyStats(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/api/v1/stats/most-sold-product", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["found"])
	require.Nil(t, body["product"])
}

func TestCatalogWrites(t *testing.T) {
	s := newTestServer(t)
	w := seed(t, s)

	code, body := s.do(http.MethodPost, "/api/v1/categories", w.seller, gin.H{"name": "tools"})
	require.Equal(t, http.StatusCreated, code)
	catID := body["category"].(map[string]any)["id"]
	require.Equal(t, "TOOLS", body["category"].(map[string]any)["name"])

	code, _ = s.do(http.MethodPost, "/api/v1/categories", w.buyer, gin.H{"name": "nope"})
	require.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/v1/categories", w.seller, gin.H{"name": "TOOLS"})
	require.Equal(t, http.StatusConflict, code)

	product := gin.H{"name": "saw", "purchase_price": "3.00", "sale_price": 7.5, "quantity": 0, "category": catID, "available": true}
	code, body = s.do(http.MethodPost, "/api/v1/products", w.seller, product)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, false, body["product"].(map[string]any)["available"])

	code, _ = s.do(http.MethodGet, "/api/v1/products?available=false", nil, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodDelete, "/api/v1/categories/999", w.seller, nil)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/v1/categories/abc", nil, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)
	_, err := s.users.Register(context.Background(), service.UserInput{Username: "boss", Password: "password1", IsSeller: true})
	require.NoError(t, err)

	code, _ := s.do(http.MethodPost, "/api/v1/auth/token", nil, gin.H{"username": "boss", "password": "bad-password"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, body := s.do(http.MethodPost, "/api/v1/auth/token", nil, gin.H{"username": "boss", "password": "password1"})
	require.Equal(t, http.StatusOK, code)
	access, refresh := body["access"].(string), body["refresh"].(string)

	code, _ = s.doToken(http.MethodGet, "/api/v1/users", access, nil)
	require.Equal(t, http.StatusOK, code)

	// A refresh token is not an access token
	code, _ = s.doToken(http.MethodGet, "/api/v1/users", refresh, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	code, body = s.do(http.MethodPost, "/api/v1/auth/token/refresh", nil, gin.H{"refresh": refresh})
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, body["access"])

	code, _ = s.do(http.MethodPost, "/api/v1/auth/token/verify", nil, gin.H{"token": access})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/v1/auth/token/verify", nil, gin.H{"token": "garbage"})
	require.Equal(t, http.StatusUnauthorized, code)

	// A bad token is rejected even where anonymous access is allowed
	code, _ = s.doToken(http.MethodGet, "/api/v1/products", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	w := seed(t, s)

	code, body := s.do(http.MethodGet, "/api/v1/users", nil, nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Missing or invalid Authorization header", body["error"])

	code, _ = s.do(http.MethodGet, "/api/v1/users", w.buyer, nil)
	require.Equal(t, http.StatusForbidden, code)

	code, body = s.do(http.MethodPost, "/api/v1/users", w.seller, gin.H{"username": "newbie", "password": "password1", "is_client": true})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, true, body["user"].(map[string]any)["is_client"])
	require.NotContains(t, body["user"], "password")

	code, body = s.do(http.MethodGet, "/api/v1/users?is_client=true", w.seller, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 2, body["total"])
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/api/v1/", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "/api/v1/products", body["products"])

	code, body = s.do(http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])
}

func TestCategoryDeleteCascades(t *testing.T) {
	s := newTestServer(t)
	w := seed(t, s)

	code, body := s.do(http.MethodPost, "/api/v1/sales", w.seller, gin.H{
		"payment_method": w.pm.ID,
		"seller":         w.seller.ID,
		"buyer":          w.buyer.ID,
		"items":          []gin.H{{"product": w.product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, code)
	saleID := body["sale"].(map[string]any)["id"]

	code, _ = s.do(http.MethodDelete, "/api/v1/categories/1", w.seller, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, _ = s.do(http.MethodGet, "/api/v1/products/1", nil, nil)
	require.Equal(t, http.StatusNotFound, code)

	code, body = s.do(http.MethodGet, "/api/v1/sales/"+fmt.Sprint(saleID), w.buyer, nil)
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, body["sale"].(map[string]any)["items"])
	require.Equal(t, "11.00", body["sale"].(map[string]any)["total"])

	code, body = s.do(http.MethodGet, "/api/v1/stats/most-sold-product", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["found"])
}
