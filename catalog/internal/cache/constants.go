package cache

const KeyCatalogDocument = "storefront:catalog:document"
