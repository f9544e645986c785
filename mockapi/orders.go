package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inErrors "github.com/stridezone/storefront/internal/errors"
	inHttp "github.com/stridezone/storefront/internal/http"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

type orderItem struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int32 `json:"quantity"   validate:"required,min=1"`
}

type createOrderRequest struct {
	Amount  string      `json:"amount"  validate:"required"`
	Items   []orderItem `json:"items"   validate:"required,min=1,dive"`
	Address string      `json:"address" validate:"required"`
	Phone   string      `json:"phone"   validate:"required"`
}

func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MockApi CreateOrder")
	defer span.End()

	username := usernameFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MockApi CreateOrder").
		Str(log.KeyUsername, username).
		Logger()

	reqBody := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	if err := s.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "reserving stock").Logger()
	logger.Info().Msg("reserving stock")
	s.mu.Lock()
	for _, item := range reqBody.Items {
		found := false
		for i := range s.products {
			if s.products[i].ID != item.ProductID {
				continue
			}
			found = true
			if s.products[i].Stock < item.Quantity {
				s.mu.Unlock()
				err := fmt.Errorf(
					"insufficient stock for product=%s wanted=%d available=%d",
					s.products[i].Name,
					item.Quantity,
					s.products[i].Stock,
				)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusBadRequest,
					"message":    err.Error(),
				})
				return
			}
		}
		if !found {
			s.mu.Unlock()
			err := fmt.Errorf("productId=%d not found", item.ProductID)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
	}
	for _, item := range reqBody.Items {
		for i := range s.products {
			if s.products[i].ID == item.ProductID {
				s.products[i].Stock -= item.Quantity
			}
		}
	}

	order := storedOrder{
		ID:        uuid.NewString(),
		Username:  username,
		Amount:    reqBody.Amount,
		Address:   reqBody.Address,
		Status:    "confirmed",
		CreatedAt: time.Now().UTC(),
		Items:     reqBody.Items,
	}
	s.orders[username] = append(s.orders[username], order)
	s.mu.Unlock()
	logger.Info().Str(log.KeyOrderID, order.ID).Msg("created order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "order confirmed",
		"order_id":   order.ID,
	})
}

func (s *Server) MyOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MockApi MyOrders")
	defer span.End()

	username := usernameFromContext(c)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MockApi MyOrders").
		Str(log.KeyUsername, username).
		Logger()

	s.mu.Lock()
	orders := make([]map[string]interface{}, 0, len(s.orders[username]))
	for _, order := range s.orders[username] {
		orders = append(orders, map[string]interface{}{
			"id":         order.ID,
			"amount":     order.Amount,
			"address":    order.Address,
			"status":     order.Status,
			"created_at": order.CreatedAt.Format(time.RFC3339),
			"items":      order.Items,
		})
	}
	s.mu.Unlock()
	logger.Info().Int("orderCount", len(orders)).Msg("listed orders")

	w.Header().Add(inHttp.HeaderContentType, inHttp.HeaderValueJson)
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		logger.Error().Err(err).Msgf("failed encoding orders with error=%s", err.Error())
	}
}
