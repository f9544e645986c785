// Package catalog is the read-only client for the product catalog
// service, plus the normalization boundary that maps its wire shapes
// into the canonical Product.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inErrors "github.com/stridezone/storefront/internal/errors"
	inHttp "github.com/stridezone/storefront/internal/http"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

type Client struct {
	baseURL string
}

func NewClient(baseURL string) Client {
	return Client{baseURL: baseURL}
}

type Query struct {
	Search   string
	Category string
}

// ListProducts queries the catalog. Both a bare JSON array and a
// `{"results": [...]}` envelope are accepted.
func (cl Client) ListProducts(c context.Context, query Query) ([]Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient ListProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogClient ListProducts").
		Str(log.KeySearch, query.Search).
		Str(log.KeyCategory, query.Category).
		Logger()

	values := url.Values{}
	values.Set("search", query.Search)
	values.Set("category", query.Category)
	endpoint := cl.baseURL + "/api/products/?" + values.Encode()

	logger.Info().Msg("listing products")
	body, err := cl.get(c, endpoint)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	wire, err := decodeProductListing(body)
	if err != nil {
		err = fmt.Errorf("failed decoding product listing with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	products := make([]Product, len(wire))
	for i, w := range wire {
		products[i] = w.normalize()
	}
	logger.Info().Int("productCount", len(products)).Msg("listed products")
	return products, nil
}

// GetProduct fetches one product; used by the checkout flow to
// revalidate stock right before submission.
func (cl Client) GetProduct(c context.Context, id int64) (Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient GetProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogClient GetProduct").
		Int64(log.KeyProductID, id).
		Logger()

	endpoint := cl.baseURL + "/api/products/" + strconv.FormatInt(id, 10) + "/"
	body, err := cl.get(c, endpoint)
	if err != nil {
		err = fmt.Errorf("failed getting productId=%d with error=%w", id, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Product{}, err
	}

	wire := wireProduct{}
	if err := json.Unmarshal(body, &wire); err != nil {
		err = fmt.Errorf("failed decoding productId=%d with error=%w", id, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Product{}, err
	}
	return wire.normalize(), nil
}

func (cl Client) ListCategories(c context.Context) ([]Category, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient ListCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogClient ListCategories").
		Logger()

	body, err := cl.get(c, cl.baseURL+"/api/categories/")
	if err != nil {
		err = fmt.Errorf("failed listing categories with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	categories, err := decodeCategoryListing(body)
	if err != nil {
		err = fmt.Errorf("failed decoding categories with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return categories, nil
}

func (cl Client) get(c context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(c, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	requestId := log.RequestIDFromContext(c)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	req.Header.Add(inHttp.HeaderRequestID, requestId)

	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status code=%d", resp.StatusCode)
	}

	buf := bytes.Buffer{}
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeProductListing(body []byte) ([]wireProduct, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		wire := []wireProduct{}
		err := json.Unmarshal(trimmed, &wire)
		return wire, err
	}
	envelope := struct {
		Results []wireProduct `json:"results"`
	}{}
	err := json.Unmarshal(trimmed, &envelope)
	return envelope.Results, err
}

func decodeCategoryListing(body []byte) ([]Category, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		categories := []Category{}
		err := json.Unmarshal(trimmed, &categories)
		return categories, err
	}
	envelope := struct {
		Results []Category `json:"results"`
	}{}
	err := json.Unmarshal(trimmed, &envelope)
	return envelope.Results, err
}
