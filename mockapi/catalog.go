package mockapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/stridezone/storefront/internal/errors"
	inHttp "github.com/stridezone/storefront/internal/http"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

func (s *Server) productJson(p storedProduct) map[string]interface{} {
	// Price goes out as a decimal string, the way Django serializes
	// DecimalField; the client normalizes it.
	return map[string]interface{}{
		"id":        p.ID,
		"name":      p.Name,
		"price":     p.Price.StringFixed(2),
		"stock":     p.Stock,
		"is_active": p.IsActive,
		"images": []map[string]interface{}{
			{"id": p.ID, "image": p.Image, "alt_text": p.AltText},
		},
	}
}

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MockApi ListProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MockApi ListProducts").
		Logger()

	search := strings.ToLower(r.URL.Query().Get("search"))
	category := strings.ToLower(r.URL.Query().Get("category"))
	logger = logger.With().
		Str(log.KeySearch, search).
		Str(log.KeyCategory, category).
		Logger()

	s.mu.Lock()
	results := []map[string]interface{}{}
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		results = append(results, s.productJson(p))
	}
	s.mu.Unlock()

	logger.Info().Int("productCount", len(results)).Msg("listed products")
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"results": results,
	})
}

func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MockApi GetProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MockApi GetProduct").
		Logger()

	pathValues := mux.Vars(r)
	productId, err := strconv.ParseInt(pathValues["productId"], 10, 64)
	if err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", pathValues["productId"], err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Int64(log.KeyProductID, productId).Logger()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == productId {
			logger.Info().Msg("found product")
			inHttp.WriteJsonResponse(c, w, map[string]string{}, s.productJson(p))
			return
		}
	}

	err = fmt.Errorf("productId=%d not found", productId)
	inErrors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": http.StatusNotFound,
		"message":    err.Error(),
	})
}

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MockApi ListCategories")
	defer span.End()

	s.mu.Lock()
	seen := map[string]bool{}
	categories := []map[string]interface{}{}
	for _, p := range s.products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, map[string]interface{}{
			"id":   len(categories) + 1,
			"name": p.Category,
			"slug": strings.ToLower(strings.ReplaceAll(p.Category, " ", "-")),
		})
	}
	s.mu.Unlock()

	zerolog.Ctx(c).Info().
		Str(log.KeyTag, "MockApi ListCategories").
		Int("categoryCount", len(categories)).
		Msg("listed categories")
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"results": categories,
	})
}
