package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/voltera/site-backend/internal/http/response"
	"github.com/voltera/site-backend/internal/services"
)

type ContentHandler struct {
	content services.ContentService
}

func NewContentHandler(content services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// GET /api/pages/:slug
func (h *ContentHandler) GetPage(c *gin.Context) {
	page, err := h.content.GetPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, err, "get_page_failed")
		return
	}
	response.RespondOK(c, gin.H{"page": page})
}

// GET /api/sectors
func (h *ContentHandler) ListSectors(c *gin.Context) {
	response.RespondOK(c, gin.H{"sectors": h.content.Sectors(c.Request.Context())})
}
