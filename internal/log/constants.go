package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyUsername           = "username"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyConfig             = "config"
	KeyCacheKey           = "cacheKey"
	KeyCatalogPath        = "catalogPath"
	KeyCatalogSize        = "catalogSize"
	KeyOrderNumber        = "orderNumber"
	KeyOrdersPath         = "ordersPath"
	KeyOrdersCount        = "ordersCount"
	KeyCartLines          = "cartLines"
	KeyCartLinesMerged    = "cartLinesMerged"
	KeyQuote              = "quote"
	KeyProductID          = "productId"
	KeyUploadFolder       = "uploadFolder"
	KeyUploadFilename     = "uploadFilename"
	KeyUploadContentType  = "uploadContentType"
	KeyUploadPath         = "uploadPath"
	KeyStaticPath         = "staticPath"
)
