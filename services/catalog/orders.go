package catalog

import (
	"context"
	"strings"

	"astrodesk/models"
	"astrodesk/utils"

	"go.uber.org/zap"
)

// CreateOrder records a purchase and hands the buyer a download link. The PayPal order
// id is stored as given; payment is not verified here.
func (s *DefaultCatalogService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error) {
	product, err := s.lookup(ctx, strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ProductID:     product.ID,
		PayPalOrderID: strings.TrimSpace(req.PayPalOrderID),
		Email:         strings.TrimSpace(req.Email),
		Name:          strings.TrimSpace(req.Name),
		Amount:        product.Price,
		ProductTitle:  product.Title,
	}
	orderID, err := s.Orders.Create(ctx, order)
	if err != nil {
		return nil, utils.Upstream("Failed to save order", err)
	}

	log := s.Logger.With(zap.String("order_id", orderID), zap.String("product_id", product.ID))
	log.Info("Order created", zap.Float64("amount", order.Amount))

	// From here on the order stands; link and mail problems are only logged.
	var link string
	switch {
	case product.DownloadRef == "":
		log.Warn("Product has no downloadable file")
	case s.Assets == nil:
		log.Warn("No asset store configured, cannot resolve download link")
	default:
		link, err = s.Assets.DownloadLink(ctx, product.DownloadRef, order.Email)
		if err != nil {
			log.Error("Failed to resolve download link", zap.String("store", s.Assets.Name()), zap.Error(err))
			link = ""
		}
	}

	if s.Notifier != nil {
		s.Notifier.OrderPlaced(ctx, *order, link)
	}
	return &models.OrderConfirmation{OrderID: orderID, DownloadLink: link}, nil
}
