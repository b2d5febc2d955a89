package constants

const (
	AppStorefront = "storefront"
	AppCatalog    = "storefront-catalog"
	AppCart       = "storefront-cart"
	AppOrder      = "storefront-order"
	AppUser       = "storefront-user"
	AppUpload     = "storefront-upload"
	AppReview     = "storefront-review"
	AppShop       = "storefront-shop"
	AppProduct    = "storefront-product"
)

const (
	RoleAdmin = "admin"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)
