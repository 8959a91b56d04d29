package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voltera/site-backend/internal/http/response"
	"github.com/voltera/site-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/products?category=&sector=&featured=&q=&page=&pageSize=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	in := services.ListProductsInput{
		Category: strings.TrimSpace(c.Query("category")),
		Sector:   strings.TrimSpace(c.Query("sector")),
		Query:    strings.TrimSpace(c.Query("q")),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "pageSize"),
	}
	if v := strings.TrimSpace(c.Query("featured")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_featured", err)
			return
		}
		in.Featured = &b
	}
	page, err := h.catalog.ListProducts(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err, "list_products_failed")
		return
	}
	response.RespondOK(c, page)
}

// GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "get_product_failed")
		return
	}
	response.RespondOK(c, gin.H{"product": p})
}

// GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "list_categories_failed")
		return
	}
	response.RespondOK(c, gin.H{"categories": cats})
}

func queryInt(c *gin.Context, key string) int {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
