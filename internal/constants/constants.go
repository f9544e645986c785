package constants

const (
	AppStorefront = "stridezone-storefront"
	AppMockApi    = "stridezone-mockapi"

	AudienceShopper = "stridezone-shopper"

	// Durable local store slot keys. The cart slot layout is a JSON
	// array of lines; the token slot holds the raw bearer token.
	SlotCart  = "stridezone_cart"
	SlotToken = "stridezone_token"
)
