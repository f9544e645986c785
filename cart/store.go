// Package cart implements the local staging cart: quantities bounded
// by the stock snapshotted at add-time, derived count and total, and
// write-through persistence to the durable local store.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/stridezone/storefront/internal/errors"
	"github.com/stridezone/storefront/internal/localstore"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

// Store owns the cart state. It is constructed explicitly and injected
// where needed; there is no package-level instance. It is not safe for
// concurrent use: the storefront drives it from a single command
// goroutine and every operation runs synchronously to completion.
type Store struct {
	slot  localstore.Store
	key   string
	lines []Line
	index map[int64]int
}

// New restores the cart from its slot. A missing slot yields an empty
// cart; so does a corrupt one (recover-by-reset, the corrupt slot is
// overwritten on the next write).
func New(c context.Context, slot localstore.Store, key string) *Store {
	c, span := otel.Tracer.Start(c, "cart New")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cart New").
		Str(log.KeySlotKey, key).
		Logger()

	s := &Store{slot: slot, key: key, index: map[int64]int{}}

	raw, err := slot.Get(c, key)
	if err != nil {
		if !errors.Is(err, localstore.ErrKeyNotFound) {
			inErrors.HandleError(err, span)
			logger.Warn().Err(err).Msg("failed reading cart slot, starting empty")
		}
		return s
	}

	persisted := []persistedLine{}
	if err := json.Unmarshal(raw, &persisted); err != nil {
		err = fmt.Errorf("cart slot corrupted with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg("resetting cart to empty")
		return s
	}
	for _, p := range persisted {
		s.index[p.ID] = len(s.lines)
		s.lines = append(s.lines, p.line())
	}
	logger.Info().Int(log.KeyCartLines, len(s.lines)).Msg("restored cart from slot")
	return s
}

// AddItem creates or grows the line for the product. A new line starts
// at min(requestedQuantity, stock); adding with stock <= 0 is rejected
// with ErrOutOfStock and nothing changes. Growing past the stock
// ceiling saturates the line at the ceiling and signals
// ErrStockLimitReached: the mutation is applied and persisted, the
// signal is a notice, not a failure. Growing a line whose ceiling is
// not positive (a slot written before stock was recorded) drops the
// line and signals ErrOutOfStock.
func (s *Store) AddItem(c context.Context, product Snapshot, requestedQuantity int32) error {
	c, span := otel.Tracer.Start(c, "CartStore AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore AddItem").
		Int64(log.KeyProductID, product.ProductID).
		Int32(log.KeyQuantity, requestedQuantity).
		Logger()

	if requestedQuantity < 1 {
		requestedQuantity = 1
	}

	idx, ok := s.index[product.ProductID]
	if !ok {
		if product.Stock <= 0 {
			inErrors.HandleError(inErrors.ErrOutOfStock, span)
			logger.Info().Msg("rejected add, product out of stock")
			return inErrors.ErrOutOfStock
		}
		quantity := min(requestedQuantity, product.Stock)
		s.index[product.ProductID] = len(s.lines)
		s.lines = append(s.lines, Line{
			ProductID:    product.ProductID,
			Name:         product.Name,
			UnitPrice:    product.UnitPrice,
			ImageRef:     product.ImageRef,
			Quantity:     quantity,
			StockCeiling: product.Stock,
		})
		logger.Info().Int32(log.KeyQuantity, quantity).Msg("added cart line")
		return s.persist(c)
	}

	line := s.lines[idx]
	if line.StockCeiling <= 0 {
		// A restored line without a usable stock ceiling cannot grow;
		// drop it instead of clamping the quantity to zero.
		s.remove(idx)
		inErrors.HandleError(inErrors.ErrOutOfStock, span)
		logger.Info().Msg("dropped cart line, product out of stock")
		return errors.Join(inErrors.ErrOutOfStock, s.persist(c))
	}
	// Widen before adding so a huge requested quantity cannot wrap
	// around the clamp.
	newQuantity := int64(line.Quantity) + int64(requestedQuantity)
	if newQuantity > int64(line.StockCeiling) {
		// Saturate, don't no-op.
		s.lines[idx].Quantity = line.StockCeiling
		logger.Info().
			Int32(log.KeyQuantity, line.StockCeiling).
			Msg("clamped cart line to stock ceiling")
		return errors.Join(inErrors.ErrStockLimitReached, s.persist(c))
	}
	s.lines[idx].Quantity = int32(newQuantity)
	logger.Info().Int32(log.KeyQuantity, int32(newQuantity)).Msg("grew cart line")
	return s.persist(c)
}

// UpdateQuantity applies a signed delta to an existing line. Reaching
// zero or below removes the line entirely; exceeding the stock ceiling
// leaves the line unchanged and signals ErrStockLimitReached. Growing
// a line without a positive ceiling drops it with ErrOutOfStock. An
// unknown productID is a no-op that still persists.
func (s *Store) UpdateQuantity(c context.Context, productID int64, delta int32) error {
	c, span := otel.Tracer.Start(c, "CartStore UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore UpdateQuantity").
		Int64(log.KeyProductID, productID).
		Int32("delta", delta).
		Logger()

	idx, ok := s.index[productID]
	if !ok {
		logger.Info().Msg("no line for product, nothing to update")
		return s.persist(c)
	}

	line := s.lines[idx]
	if delta > 0 && line.StockCeiling <= 0 {
		s.remove(idx)
		inErrors.HandleError(inErrors.ErrOutOfStock, span)
		logger.Info().Msg("dropped cart line, product out of stock")
		return errors.Join(inErrors.ErrOutOfStock, s.persist(c))
	}
	newQuantity := int64(line.Quantity) + int64(delta)
	switch {
	case newQuantity <= 0:
		s.remove(idx)
		logger.Info().Msg("removed cart line via decrement")
	case newQuantity > int64(line.StockCeiling):
		logger.Info().Msg("rejected update, stock limit reached")
		return errors.Join(inErrors.ErrStockLimitReached, s.persist(c))
	default:
		s.lines[idx].Quantity = int32(newQuantity)
		logger.Info().Int32(log.KeyQuantity, int32(newQuantity)).Msg("updated cart line")
	}
	return s.persist(c)
}

// RemoveItem drops the line unconditionally if present. Idempotent.
func (s *Store) RemoveItem(c context.Context, productID int64) error {
	c, span := otel.Tracer.Start(c, "CartStore RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore RemoveItem").
		Int64(log.KeyProductID, productID).
		Logger()

	if idx, ok := s.index[productID]; ok {
		s.remove(idx)
		logger.Info().Msg("removed cart line")
	}
	return s.persist(c)
}

// Clear empties the cart. Called on logout and after a successful
// order submission.
func (s *Store) Clear(c context.Context) error {
	c, span := otel.Tracer.Start(c, "CartStore Clear")
	defer span.End()

	s.lines = nil
	s.index = map[int64]int{}
	zerolog.Ctx(c).Info().Str(log.KeyTag, "CartStore Clear").Msg("cleared cart")
	return s.persist(c)
}

// Count is the sum of quantities across all lines.
func (s *Store) Count() int32 {
	var count int32
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Total sums unitPrice*quantity exactly; rounding happens only at
// display time.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Lines returns a copy in insertion order; consumers never mutate the
// store's state directly.
func (s *Store) Lines() []Line {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

func (s *Store) remove(idx int) {
	removed := s.lines[idx]
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	delete(s.index, removed.ProductID)
	for i := idx; i < len(s.lines); i++ {
		s.index[s.lines[i].ProductID] = i
	}
}

func (s *Store) persist(c context.Context) error {
	c, span := otel.Tracer.Start(c, "CartStore persist")
	defer span.End()

	persisted := make([]persistedLine, len(s.lines))
	for i, line := range s.lines {
		persisted[i] = line.persisted()
	}
	raw, err := json.Marshal(persisted)
	if err != nil {
		err = fmt.Errorf("failed marshaling cart with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	if err = s.slot.Set(c, s.key, raw); err != nil {
		err = fmt.Errorf("failed persisting cart with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}
