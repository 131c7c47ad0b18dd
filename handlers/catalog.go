package handlers

import (
	"net/http"

	"astrodesk/models"
	"astrodesk/services/catalog"
	"astrodesk/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	CatalogSvc catalog.CatalogService
}

func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{CatalogSvc: svc}
}

// ListProductsHandler handles GET /api/products.
func (h *CatalogHandler) ListProductsHandler(c *gin.Context) {
	products, err := h.CatalogSvc.ListProducts(c.Request.Context())
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductHandler handles GET /api/products/:id.
func (h *CatalogHandler) GetProductHandler(c *gin.Context) {
	product, err := h.CatalogSvc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateOrderHandler handles POST /api/orders.
func (h *CatalogHandler) CreateOrderHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, logger, utils.InvalidInput("Invalid order request: "+err.Error()))
		return
	}

	conf, err := h.CatalogSvc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, logger, err)
		return
	}

	message := "Order created. Check your email for the download link."
	if conf.DownloadLink == "" {
		message = "Order created. Your download link will be sent by email shortly."
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: message, ID: conf.OrderID})
}
