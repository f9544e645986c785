package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestListProducts(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "given a bare array listing should decode products",
			body: `[{"id":1,"name":"Velocity Runner","price":"129.99","stock":25}]`,
		},
		{
			name: "given an enveloped listing should decode products",
			body: `{"results":[{"id":1,"name":"Velocity Runner","price":"129.99","stock":25}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/api/products/", r.URL.Path)
					gotQuery = r.URL.Query().Get("search")
					w.Write([]byte(tt.body))
				}),
			)
			defer server.Close()

			client := NewClient(server.URL)
			products, err := client.ListProducts(testContext(), Query{Search: "runner"})
			assert.NoError(t, err)
			assert.Equal(t, "runner", gotQuery)
			assert.Len(t, products, 1)
			assert.Equal(t, "Velocity Runner", products[0].Name)
			assert.Equal(t, "129.99", products[0].Price.StringFixed(2))
		})
	}
}

func TestGetProduct(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/products/42/", r.URL.Path)
			w.Write([]byte(`{"id":42,"name":"Trailblazer GTX","price":"159.50","stock":12}`))
		}),
	)
	defer server.Close()

	client := NewClient(server.URL)
	product, err := client.GetProduct(testContext(), 42)
	assert.NoError(t, err)
	assert.EqualValues(t, 42, product.ID)
	assert.EqualValues(t, 12, product.Stock)
}

func TestGetProductNotFound(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}),
	)
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetProduct(testContext(), 404)
	assert.Error(t, err)
}

func TestListCategories(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/categories/", r.URL.Path)
			w.Write([]byte(`{"results":[{"id":1,"name":"Running","slug":"running"}]}`))
		}),
	)
	defer server.Close()

	client := NewClient(server.URL)
	categories, err := client.ListCategories(testContext())
	assert.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, "Running", categories[0].Name)
}
