package handlers

import (
	"io"
	"net/http"

	"astrodesk/middleware"
	"astrodesk/models"
	"astrodesk/services/content"
	"astrodesk/utils"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	ArticleSvc content.ArticleService
}

func NewArticleHandler(svc content.ArticleService) *ArticleHandler {
	return &ArticleHandler{ArticleSvc: svc}
}

// ListArticlesHandler handles GET /api/articles.
func (h *ArticleHandler) ListArticlesHandler(c *gin.Context) {
	articles, err := h.ArticleSvc.ListArticles(c.Request.Context())
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetArticleHandler handles GET /api/articles/:id.
func (h *ArticleHandler) GetArticleHandler(c *gin.Context) {
	article, err := h.ArticleSvc.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// CreateArticleHandler handles POST /api/admin/articles.
func (h *ArticleHandler) CreateArticleHandler(c *gin.Context) {
	input, closer, err := bindArticle(c)
	defer closeAll(closer)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}

	article, err := h.ArticleSvc.CreateArticle(c.Request.Context(), input)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Article created successfully", ID: article.ID})
}

// UpdateArticleHandler handles PUT /api/admin/articles/:id.
func (h *ArticleHandler) UpdateArticleHandler(c *gin.Context) {
	input, closer, err := bindArticle(c)
	defer closeAll(closer)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}

	article, err := h.ArticleSvc.UpdateArticle(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Article updated successfully", "article": article})
}

// DeleteArticleHandler handles DELETE /api/admin/articles/:id?password=...
func (h *ArticleHandler) DeleteArticleHandler(c *gin.Context) {
	if err := h.ArticleSvc.DeleteArticle(c.Request.Context(), c.Param("id"), middleware.AdminPassword(c)); err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Article deleted successfully"})
}

func bindArticle(c *gin.Context) (models.ArticleInput, io.Closer, error) {
	var input models.ArticleInput
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&input); err != nil {
			return input, nil, utils.InvalidInput("Invalid article request: " + err.Error())
		}
		input.Password = adminPassword(c, input.Password)
		return input, nil, nil
	}

	input = models.ArticleInput{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		ImageURL: c.PostForm("image_url"),
		Password: adminPassword(c, c.PostForm("password")),
	}
	upload, closer, err := formUpload(c, "image")
	if err != nil {
		return input, nil, err
	}
	input.Image = upload
	return input, closer, nil
}
