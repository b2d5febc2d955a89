package http

const (
	KeyHeaderAuthorization = "Authorization"
	KeyHeaderContentType   = "Content-Type"
	KeyHeaderRequestID     = "X-Request-Id"

	ValueHeaderApplicationJson = "application/json"
	ValueHeaderBearerPrefix    = "Bearer "
)
