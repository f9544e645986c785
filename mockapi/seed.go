package mockapi

import (
	"github.com/shopspring/decimal"
)

func seedProducts() []storedProduct {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []storedProduct{
		{
			ID: 1, Name: "Velocity Runner", Category: "Running",
			Price: price("129.99"), Stock: 25, IsActive: true,
			Image: "/media/products/velocity-runner.jpg", AltText: "Velocity Runner side view",
		},
		{
			ID: 2, Name: "Trailblazer GTX", Category: "Trail",
			Price: price("159.50"), Stock: 12, IsActive: true,
			Image: "/media/products/trailblazer-gtx.jpg", AltText: "Trailblazer GTX side view",
		},
		{
			ID: 3, Name: "Court Classic", Category: "Lifestyle",
			Price: price("89.99"), Stock: 40, IsActive: true,
			Image: "/media/products/court-classic.jpg", AltText: "Court Classic side view",
		},
		{
			ID: 4, Name: "Street Glide", Category: "Lifestyle",
			Price: price("74.00"), Stock: 3, IsActive: true,
			Image: "/media/products/street-glide.jpg", AltText: "Street Glide side view",
		},
		{
			ID: 5, Name: "Marathon Elite", Category: "Running",
			Price: price("199.99"), Stock: 0, IsActive: true,
			Image: "/media/products/marathon-elite.jpg", AltText: "Marathon Elite side view",
		},
		{
			ID: 6, Name: "Retro Drop", Category: "Lifestyle",
			Price: price("119.00"), Stock: 8, IsActive: false,
			Image: "/media/products/retro-drop.jpg", AltText: "Retro Drop side view",
		},
	}
}
