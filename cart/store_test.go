package cart

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/stridezone/storefront/internal/errors"
	"github.com/stridezone/storefront/internal/localstore"
)

const testSlotKey = "stridezone_cart"

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func runner(stock int32, price string) Snapshot {
	return Snapshot{
		ProductID: 1,
		Name:      "Velocity Runner",
		UnitPrice: decimal.RequireFromString(price),
		ImageRef:  "/media/products/velocity-runner.jpg",
		Stock:     stock,
	}
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name             string
		product          Snapshot
		requested        int32
		expectedQuantity int32
		expectedErr      error
	}{
		{
			name:             "given quantity within stock should add line at requested quantity",
			product:          runner(5, "129.99"),
			requested:        3,
			expectedQuantity: 3,
			expectedErr:      nil,
		},
		{
			name:             "given quantity above stock should clamp line to stock",
			product:          runner(2, "129.99"),
			requested:        10,
			expectedQuantity: 2,
			expectedErr:      nil,
		},
		{
			name:             "given quantity below one should add a single unit",
			product:          runner(5, "129.99"),
			requested:        0,
			expectedQuantity: 1,
			expectedErr:      nil,
		},
		{
			name:             "given product without stock should reject with out of stock",
			product:          runner(0, "129.99"),
			requested:        1,
			expectedQuantity: 0,
			expectedErr:      inErrors.ErrOutOfStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext()
			store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)

			err := store.AddItem(c, tt.product, tt.requested)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, store.Lines(), "rejected add should not create a line")
				return
			}
			assert.NoError(t, err)
			lines := store.Lines()
			assert.Len(t, lines, 1)
			assert.EqualValues(t, tt.expectedQuantity, lines[0].Quantity)
		})
	}
}

func TestAddItemSaturatesAtStockCeiling(t *testing.T) {
	c := testContext()
	store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)
	product := runner(3, "129.99")

	assert.NoError(t, store.AddItem(c, product, 1))
	assert.NoError(t, store.AddItem(c, product, 1))
	assert.NoError(t, store.AddItem(c, product, 1))
	assert.ErrorIs(t, store.AddItem(c, product, 1), inErrors.ErrStockLimitReached)

	lines := store.Lines()
	assert.Len(t, lines, 1)
	assert.EqualValues(t, 3, lines[0].Quantity, "quantity should saturate at the stock ceiling")
	assert.EqualValues(t, 3, store.Count())
}

func TestAddItemHugeQuantityDoesNotWrapAroundCeiling(t *testing.T) {
	c := testContext()
	store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)
	product := runner(5, "129.99")

	assert.NoError(t, store.AddItem(c, product, 1))
	assert.ErrorIs(
		t,
		store.AddItem(c, product, math.MaxInt32),
		inErrors.ErrStockLimitReached,
	)

	lines := store.Lines()
	assert.Len(t, lines, 1)
	assert.EqualValues(t, 5, lines[0].Quantity, "quantity should clamp to the ceiling, never go negative")
	assert.GreaterOrEqual(t, lines[0].Quantity, int32(1))
}

func TestUpdateQuantityHugeDeltaDoesNotWrapAroundCeiling(t *testing.T) {
	c := testContext()
	store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)
	product := runner(5, "129.99")

	assert.NoError(t, store.AddItem(c, product, 2))
	assert.ErrorIs(
		t,
		store.UpdateQuantity(c, product.ProductID, math.MaxInt32),
		inErrors.ErrStockLimitReached,
	)

	lines := store.Lines()
	assert.Len(t, lines, 1)
	assert.EqualValues(t, 2, lines[0].Quantity, "quantity should stay put when the delta exceeds the ceiling")
}

func TestAbsentStockInSlotForcesOutOfStock(t *testing.T) {
	c := testContext()
	slot := localstore.NewFileStore(t.TempDir())
	seeded := `[{"id":1,"name":"Velocity Runner","price":129.99,"image":"","quantity":2}]`
	assert.NoError(t, slot.Set(c, testSlotKey, []byte(seeded)))

	store := New(c, slot, testSlotKey)
	lines := store.Lines()
	assert.Len(t, lines, 1)
	assert.EqualValues(t, 0, lines[0].StockCeiling, "absent stock decodes as zero")

	err := store.AddItem(c, runner(0, "129.99"), 1)
	assert.ErrorIs(t, err, inErrors.ErrOutOfStock)
	assert.Empty(t, store.Lines(), "a line without a usable ceiling is dropped, never kept at quantity zero")

	restored := New(c, slot, testSlotKey)
	assert.Empty(t, restored.Lines(), "the drop is persisted")
}

func TestAbsentStockInSlotForcesOutOfStockOnIncrement(t *testing.T) {
	c := testContext()
	slot := localstore.NewFileStore(t.TempDir())
	seeded := `[{"id":1,"name":"Velocity Runner","price":129.99,"image":"","quantity":2}]`
	assert.NoError(t, slot.Set(c, testSlotKey, []byte(seeded)))

	store := New(c, slot, testSlotKey)
	assert.ErrorIs(t, store.UpdateQuantity(c, 1, 1), inErrors.ErrOutOfStock)
	assert.Empty(t, store.Lines())

	// Decrementing the same layout still removes cleanly.
	assert.NoError(t, slot.Set(c, testSlotKey, []byte(seeded)))
	store = New(c, slot, testSlotKey)
	assert.NoError(t, store.UpdateQuantity(c, 1, -2))
	assert.Empty(t, store.Lines())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name             string
		initialQuantity  int32
		delta            int32
		expectedLines    int
		expectedQuantity int32
		expectedErr      error
	}{
		{
			name:             "given positive delta within stock should grow the line",
			initialQuantity:  1,
			delta:            2,
			expectedLines:    1,
			expectedQuantity: 3,
			expectedErr:      nil,
		},
		{
			name:            "given delta reaching zero should remove the line",
			initialQuantity: 1,
			delta:           -1,
			expectedLines:   0,
			expectedErr:     nil,
		},
		{
			name:            "given delta passing below zero should remove the line",
			initialQuantity: 2,
			delta:           -5,
			expectedLines:   0,
			expectedErr:     nil,
		},
		{
			name:             "given delta above the stock ceiling should leave the line unchanged",
			initialQuantity:  5,
			delta:            1,
			expectedLines:    1,
			expectedQuantity: 5,
			expectedErr:      inErrors.ErrStockLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext()
			store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)
			product := runner(5, "129.99")
			assert.NoError(t, store.AddItem(c, product, tt.initialQuantity))

			err := store.UpdateQuantity(c, product.ProductID, tt.delta)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			lines := store.Lines()
			assert.Len(t, lines, tt.expectedLines)
			if tt.expectedLines > 0 {
				assert.EqualValues(t, tt.expectedQuantity, lines[0].Quantity)
			}
		})
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	c := testContext()
	store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)

	assert.NoError(t, store.UpdateQuantity(c, 404, 1))
	assert.Empty(t, store.Lines())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := testContext()
	store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)
	product := runner(5, "129.99")
	assert.NoError(t, store.AddItem(c, product, 2))

	assert.NoError(t, store.RemoveItem(c, product.ProductID))
	assert.NoError(t, store.RemoveItem(c, product.ProductID))
	assert.Empty(t, store.Lines())
	assert.EqualValues(t, 0, store.Count())
}

func TestCountAndTotal(t *testing.T) {
	c := testContext()
	store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)

	first := Snapshot{
		ProductID: 1,
		Name:      "Velocity Runner",
		UnitPrice: decimal.RequireFromString("10.00"),
		Stock:     10,
	}
	second := Snapshot{
		ProductID: 2,
		Name:      "Court Classic",
		UnitPrice: decimal.RequireFromString("5.50"),
		Stock:     10,
	}
	assert.NoError(t, store.AddItem(c, first, 2))
	assert.NoError(t, store.AddItem(c, second, 1))

	assert.EqualValues(t, 3, store.Count())
	assert.Equal(t, "25.50", store.Total().StringFixed(2))
}

func TestClear(t *testing.T) {
	c := testContext()
	store := New(c, localstore.NewFileStore(t.TempDir()), testSlotKey)
	assert.NoError(t, store.AddItem(c, runner(5, "129.99"), 2))

	assert.NoError(t, store.Clear(c))
	assert.Empty(t, store.Lines())
	assert.True(t, store.Total().IsZero())
}

func TestPersistenceRoundTrip(t *testing.T) {
	c := testContext()
	slot := localstore.NewFileStore(t.TempDir())

	store := New(c, slot, testSlotKey)
	assert.NoError(t, store.AddItem(c, runner(5, "129.99"), 2))
	assert.NoError(t, store.AddItem(c, Snapshot{
		ProductID: 2,
		Name:      "Court Classic",
		UnitPrice: decimal.RequireFromString("89.99"),
		Stock:     40,
	}, 1))

	restored := New(c, slot, testSlotKey)
	assert.EqualValues(t, store.Lines(), restored.Lines())
	assert.EqualValues(t, store.Count(), restored.Count())
	assert.True(t, store.Total().Equal(restored.Total()))
}

func TestCorruptSlotRecoversToEmpty(t *testing.T) {
	c := testContext()
	slot := localstore.NewFileStore(t.TempDir())
	assert.NoError(t, slot.Set(c, testSlotKey, []byte("{not json")))

	store := New(c, slot, testSlotKey)
	assert.Empty(t, store.Lines())
	assert.EqualValues(t, 0, store.Count())

	// The next write replaces the corrupt slot.
	assert.NoError(t, store.AddItem(c, runner(5, "129.99"), 1))
	restored := New(c, slot, testSlotKey)
	assert.Len(t, restored.Lines(), 1)
}
