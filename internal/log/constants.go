package log

const (
	KeyAppName       = "app"
	KeyTag           = "tag"
	KeyProcess       = "process"
	KeyRequestID     = "requestId"
	KeyConfig        = "config"
	KeyToken         = "token"
	KeyEmail         = "email"
	KeyUsername      = "username"
	KeyProductID     = "productId"
	KeyProductName   = "productName"
	KeyQuantity      = "quantity"
	KeyCartCount     = "cartCount"
	KeyCartTotal     = "cartTotal"
	KeyCartLines     = "cartLines"
	KeySlotKey       = "slotKey"
	KeyOrderID       = "orderId"
	KeySearch        = "search"
	KeyCategory      = "category"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
)
