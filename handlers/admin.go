package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"astrodesk/middleware"
	"astrodesk/models"
	"astrodesk/services/catalog"
	"astrodesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the password-gated product administration.
type AdminHandler struct {
	CatalogSvc catalog.CatalogService
}

func NewAdminHandler(svc catalog.CatalogService) *AdminHandler {
	return &AdminHandler{CatalogSvc: svc}
}

// adminPassword prefers the password sent with the payload over the header or query value.
func adminPassword(c *gin.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return middleware.AdminPassword(c)
}

// VerifyHandler handles POST /api/admin/verify.
func (h *AdminHandler) VerifyHandler(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.CatalogSvc.VerifyAdmin(adminPassword(c, req.Password)); err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CreateProductHandler handles POST /api/admin/products. Multipart requests carry the
// image and pdf files; JSON requests reference assets uploaded beforehand.
func (h *AdminHandler) CreateProductHandler(c *gin.Context) {
	logger := getLogger(c)

	var (
		input    models.ProductInput
		password string
		closers  []io.Closer
	)
	defer func() { closeAll(closers...) }()

	if isMultipart(c) {
		password = adminPassword(c, c.PostForm("password"))
		// Reject early so no file is read for an unauthorized caller.
		if err := h.CatalogSvc.VerifyAdmin(password); err != nil {
			utils.JSONError(c, logger, err)
			return
		}

		price, err := parsePrice(c.PostForm("price"))
		if err != nil {
			utils.JSONError(c, logger, err)
			return
		}
		input = models.ProductInput{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			Price:       price,
			Category:    c.PostForm("category"),
			ImageURL:    c.PostForm("image_url"),
			DownloadRef: c.PostForm("pdf_public_id"),
		}
		files := []struct {
			field string
			dst   **models.Upload
		}{{"image", &input.Image}, {"pdf", &input.Document}}
		for _, f := range files {
			upload, closer, err := formUpload(c, f.field)
			if err != nil {
				utils.JSONError(c, logger, err)
				return
			}
			closers = append(closers, closer)
			*f.dst = upload
		}
	} else {
		var req models.ProductJSONRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, logger, utils.InvalidInput("Invalid product request: "+err.Error()))
			return
		}
		password = adminPassword(c, req.Password)
		input = models.ProductInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
			DownloadRef: req.PDFPublicID,
		}
	}

	product, err := h.CatalogSvc.CreateProduct(c.Request.Context(), input, password)
	if err != nil {
		utils.JSONError(c, logger, err)
		return
	}

	logger.Info("Product added", zap.String("product_id", product.ID))
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Product added successfully", ID: product.ID})
}

// UpdateProductHandler handles PUT /api/admin/products/:id.
func (h *AdminHandler) UpdateProductHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, logger, utils.InvalidInput("Invalid product update: "+err.Error()))
		return
	}
	req.Password = adminPassword(c, req.Password)

	view, err := h.CatalogSvc.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.JSONError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Product updated successfully", "product": view})
}

// DeleteProductHandler handles DELETE /api/admin/products/:id?password=...
func (h *AdminHandler) DeleteProductHandler(c *gin.Context) {
	if err := h.CatalogSvc.DeleteProduct(c.Request.Context(), c.Param("id"), middleware.AdminPassword(c)); err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Product deleted successfully"})
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, utils.InvalidInput("Price is required")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, utils.InvalidInput("Price must be a number")
	}
	return price, nil
}
