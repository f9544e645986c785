package cart

import (
	"github.com/shopspring/decimal"
)

// Snapshot is the canonical product record the store accepts. It is a
// point-in-time copy taken at the catalog boundary; the store never
// re-fetches price or stock.
type Snapshot struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
	Stock     int32
}

// Line is one row in the cart, keyed by product identity. Quantity is
// always within [1, StockCeiling]; a line that would reach quantity 0
// is removed instead.
type Line struct {
	ProductID    int64
	Name         string
	UnitPrice    decimal.Decimal
	ImageRef     string
	Quantity     int32
	StockCeiling int32
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// persistedLine is the durable slot layout: a JSON array of these,
// with price as a JSON number. There is no version field; an absent
// stock decodes as 0 and forces an out-of-stock signal on the next
// mutation of that line.
type persistedLine struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int32   `json:"quantity"`
	Stock    int32   `json:"stock"`
}

func (l Line) persisted() persistedLine {
	return persistedLine{
		ID:       l.ProductID,
		Name:     l.Name,
		Price:    l.UnitPrice.InexactFloat64(),
		Image:    l.ImageRef,
		Quantity: l.Quantity,
		Stock:    l.StockCeiling,
	}
}

func (p persistedLine) line() Line {
	return Line{
		ProductID:    p.ID,
		Name:         p.Name,
		UnitPrice:    decimal.NewFromFloat(p.Price),
		ImageRef:     p.Image,
		Quantity:     p.Quantity,
		StockCeiling: p.Stock,
	}
}
