package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ceylonhub/storefront/internal/api"
	"github.com/ceylonhub/storefront/internal/catalog"
	"github.com/ceylonhub/storefront/internal/config"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
	"github.com/ceylonhub/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anonToken struct{}

func (anonToken) Token() string { return "" }

func newCatalog(t *testing.T, handler http.Handler) (*catalog.Service, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(config.API{BaseURL: server.URL, Timeout: 5 * time.Second}, anonToken{})
	require.NoError(t, err)

	return catalog.New(client), server
}

func TestList(t *testing.T) {

	t.Run("Success - Query parameters forwarded", func(t *testing.T) {
		// Arrange
		var gotQuery url.Values

		svc, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode(map[string][]models.Product{
				"products": {{ID: "p1", Name: "Keyboard", Price: 25}},
			})
		}))

		// Act
		products, err := svc.List(context.Background(), catalog.ListOptions{Search: "key board", Category: "electronics", Page: 2})

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Keyboard", products[0].Name)
		assert.Equal(t, "key board", gotQuery.Get("search"))
		assert.Equal(t, "electronics", gotQuery.Get("category"))
		assert.Equal(t, "2", gotQuery.Get("page"))
	})

	t.Run("Success - No options means a bare request", func(t *testing.T) {
		var gotURL string

		svc, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotURL = r.URL.String()
			json.NewEncoder(w).Encode(map[string][]models.Product{"products": {}})
		}))

		products, err := svc.List(context.Background(), catalog.ListOptions{})

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Equal(t, "/products", gotURL)
	})

	t.Run("Failure - Backend error propagates", func(t *testing.T) {
		svc, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "Database unavailable"})
		}))

		_, err := svc.List(context.Background(), catalog.ListOptions{})

		require.Error(t, err)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Database unavailable", appErr.Message)
	})
}

func TestGet(t *testing.T) {

	t.Run("Success - Decodes the product document", func(t *testing.T) {
		svc, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products/p1", r.URL.Path)
			json.NewEncoder(w).Encode(models.Product{
				ID:     "p1",
				Name:   "Keyboard",
				Price:  25,
				Images: []models.ProductImage{{URL: "https://img/kb.png"}},
				Rating: models.Rating{Average: 4.5, Count: 12},
			})
		}))

		product, err := svc.Get(context.Background(), "p1")

		require.NoError(t, err)
		assert.Equal(t, "Keyboard", product.Name)
		assert.Equal(t, 4.5, product.Rating.Average)

		item := product.CartItem()
		assert.Equal(t, "p1", item.ProductID)
		assert.Equal(t, "https://img/kb.png", item.Image)
	})

	t.Run("Failure - Empty id rejected locally", func(t *testing.T) {
		called := false

		svc, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		_, err := svc.Get(context.Background(), "")

		require.Error(t, err)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		assert.False(t, called)
	})

	t.Run("Failure - Unknown product maps to not found", func(t *testing.T) {
		svc, _ := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Product not found"})
		}))

		_, err := svc.Get(context.Background(), "missing")

		require.Error(t, err)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	})
}
