package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Booking  *BookingHandler
	Catalog  *CatalogHandler
	Admin    *AdminHandler
	Articles *ArticleHandler
	Health   *HealthHandler
}
