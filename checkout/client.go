// Package checkout submits the cart snapshot to the order service and
// lists order history. The cart store itself never talks to the
// network; this package hands its snapshot off and the caller clears
// the cart on reported success.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/stridezone/storefront/cart"
	"github.com/stridezone/storefront/catalog"
	inErrors "github.com/stridezone/storefront/internal/errors"
	inHttp "github.com/stridezone/storefront/internal/http"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

type Address struct {
	Street string `validate:"required"`
	City   string `validate:"required"`
	Phone  string `validate:"required,min=7"`
}

type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type createOrder struct {
	Amount  string      `json:"amount"`
	Items   []OrderItem `json:"items"`
	Address string      `json:"address"`
	Phone   string      `json:"phone"`
}

type Confirmation struct {
	OrderID string
	Amount  decimal.Decimal
}

type Order struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Address   string          `json:"address"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItem     `json:"items"`
}

type Client struct {
	baseURL string
	catalog catalog.Client
}

func NewClient(baseURL string, catalogClient catalog.Client) Client {
	return Client{baseURL: baseURL, catalog: catalogClient}
}

// Submit validates the address, revalidates stock against the live
// catalog, and posts the snapshot with the bearer token. The price
// snapshotted at add-time is sent as-is; the order service reprices
// authoritatively. Stock that no longer covers a line aborts the
// submission with ErrStockChanged.
func (cl Client) Submit(
	c context.Context,
	store *cart.Store,
	address Address,
	token string,
) (Confirmation, error) {
	c, span := otel.Tracer.Start(c, "CheckoutClient Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutClient Submit").
		Logger()

	if token == "" {
		inErrors.HandleError(inErrors.ErrUnauthenticated, span)
		logger.Error().Msg(inErrors.ErrUnauthenticated.Error())
		return Confirmation{}, inErrors.ErrUnauthenticated
	}

	logger = logger.With().Str(log.KeyProcess, "validating address").Logger()
	logger.Info().Msg("validating address")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, address); err != nil {
		err = fmt.Errorf("failed validating address with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	logger.Info().Msg("validated address")

	lines := store.Lines()
	if len(lines) == 0 {
		inErrors.HandleError(inErrors.ErrEmptyCart, span)
		logger.Error().Msg(inErrors.ErrEmptyCart.Error())
		return Confirmation{}, inErrors.ErrEmptyCart
	}

	logger = logger.With().Str(log.KeyProcess, "revalidating stock").Logger()
	logger.Info().Msg("revalidating stock")
	for _, line := range lines {
		live, err := cl.catalog.GetProduct(c, line.ProductID)
		if err != nil {
			err = fmt.Errorf("failed revalidating productId=%d with error=%w", line.ProductID, err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Confirmation{}, err
		}
		if live.Stock < line.Quantity {
			err = fmt.Errorf(
				"%w: product=%s wanted=%d available=%d",
				inErrors.ErrStockChanged,
				line.Name,
				line.Quantity,
				live.Stock,
			)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Confirmation{}, err
		}
		if !live.Price.Equal(line.UnitPrice) {
			logger.Warn().
				Int64(log.KeyProductID, line.ProductID).
				Str("snapshotPrice", line.UnitPrice.String()).
				Str("livePrice", live.Price.String()).
				Msg("price drifted since add-to-cart, server reprices")
		}
	}
	logger.Info().Msg("revalidated stock")

	amount := store.Total()
	payload := createOrder{
		Amount:  amount.StringFixed(2),
		Items:   make([]OrderItem, len(lines)),
		Address: address.Street + ", " + address.City,
		Phone:   address.Phone,
	}
	for i, line := range lines {
		payload.Items[i] = OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	orderJson, err := json.Marshal(payload)
	if err != nil {
		err = fmt.Errorf("failed marshaling order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		cl.baseURL+"/api/orders/create/",
		bytes.NewBuffer(orderJson),
	)
	if err != nil {
		err = fmt.Errorf("failed creating order request with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add(inHttp.HeaderContentType, inHttp.HeaderValueJson)
	req.Header.Add(inHttp.HeaderRequestID, requestID(c))

	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	defer resp.Body.Close()

	respBody := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		err = fmt.Errorf("failed decoding order response with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf(
			"order service returned status code=%d with message=%s",
			resp.StatusCode,
			respBody["message"],
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}

	confirmation := Confirmation{Amount: amount}
	if id, ok := respBody["order_id"].(string); ok {
		confirmation.OrderID = id
	}
	logger.Info().Str(log.KeyOrderID, confirmation.OrderID).Msg("submitted order")
	return confirmation, nil
}

// ListOrders fetches the shopper's order history.
func (cl Client) ListOrders(c context.Context, token string) ([]Order, error) {
	c, span := otel.Tracer.Start(c, "CheckoutClient ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutClient ListOrders").
		Logger()

	if token == "" {
		inErrors.HandleError(inErrors.ErrUnauthenticated, span)
		logger.Error().Msg(inErrors.ErrUnauthenticated.Error())
		return nil, inErrors.ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(
		c,
		http.MethodGet,
		cl.baseURL+"/api/orders/my-orders/",
		nil,
	)
	if err != nil {
		err = fmt.Errorf("failed creating orders request with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add(inHttp.HeaderRequestID, requestID(c))

	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		inErrors.HandleError(inErrors.ErrTokenExpired, span)
		return nil, inErrors.ErrTokenExpired
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("order service returned status code=%d", resp.StatusCode)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	orders := []Order{}
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		err = fmt.Errorf("failed decoding orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("orderCount", len(orders)).Msg("listed orders")
	return orders, nil
}

func requestID(c context.Context) string {
	if id := log.RequestIDFromContext(c); id != "" {
		return id
	}
	return uuid.NewString()
}
