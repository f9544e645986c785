package catalog

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/stridezone/storefront/cart"
)

type Image struct {
	ID      int64  `json:"id"`
	URL     string `json:"image"`
	AltText string `json:"alt_text"`
}

// Product is the canonical catalog record. Everything downstream of
// the normalization boundary, the cart store included, only ever sees
// this shape.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int32           `json:"stock"`
	IsActive bool            `json:"is_active"`
	Images   []Image         `json:"images"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Snapshot freezes the product for the cart: first image wins, price
// and stock as currently known.
func (p Product) Snapshot() cart.Snapshot {
	imageRef := ""
	if len(p.Images) > 0 {
		imageRef = p.Images[0].URL
	}
	return cart.Snapshot{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  imageRef,
		Stock:     p.Stock,
	}
}

// wireProduct tolerates the shapes backends actually send: price as a
// decimal string or a bare number, under "price" or "unit_price".
type wireProduct struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     json.RawMessage `json:"price"`
	UnitPrice json.RawMessage `json:"unit_price"`
	Stock     int32           `json:"stock"`
	IsActive  *bool           `json:"is_active"`
	Images    []Image         `json:"images"`
}

func (w wireProduct) normalize() Product {
	price := parsePrice(w.Price)
	if price.IsZero() && len(w.UnitPrice) > 0 {
		price = parsePrice(w.UnitPrice)
	}
	isActive := true
	if w.IsActive != nil {
		isActive = *w.IsActive
	}
	return Product{
		ID:       w.ID,
		Name:     w.Name,
		Price:    price,
		Stock:    w.Stock,
		IsActive: isActive,
		Images:   w.Images,
	}
}

// parsePrice accepts `"12.99"` and `12.99` alike. Anything unparseable
// normalizes to zero rather than failing the whole listing.
func parsePrice(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	text := string(raw)
	if text[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return decimal.Zero
		}
		text = unquoted
	}
	price, err := decimal.NewFromString(text)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}
