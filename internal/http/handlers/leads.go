package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/voltera/site-backend/internal/domain"
	"github.com/voltera/site-backend/internal/http/response"
	"github.com/voltera/site-backend/internal/services"
)

var errInvalidKind = errors.New("kind must be contact or quote")

type LeadHandler struct {
	leads services.LeadService
}

func NewLeadHandler(leads services.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// POST /api/contact
func (h *LeadHandler) Contact(c *gin.Context) { h.submit(c, types.LeadKindContact) }

// POST /api/quote
func (h *LeadHandler) Quote(c *gin.Context) { h.submit(c, types.LeadKindQuote) }

func (h *LeadHandler) submit(c *gin.Context, kind types.LeadKind) {
	var in services.LeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lead, err := h.leads.Submit(c.Request.Context(), kind, in)
	if err != nil {
		response.RespondAPIError(c, err, "submit_lead_failed")
		return
	}
	response.RespondCreated(c, gin.H{
		"id":      lead.ID,
		"status":  lead.Status,
		"message": "Thanks! Our team will get back to you within one business day.",
	})
}

// GET /api/admin/leads?page=&pageSize=&kind=
func (h *LeadHandler) List(c *gin.Context) {
	kind := types.LeadKind(c.Query("kind"))
	switch kind {
	case "", types.LeadKindContact, types.LeadKindQuote:
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_lead_kind", errInvalidKind)
		return
	}
	page, err := h.leads.List(c.Request.Context(), kind, queryInt(c, "page"), queryInt(c, "pageSize"))
	if err != nil {
		response.RespondAPIError(c, err, "list_leads_failed")
		return
	}
	response.RespondOK(c, page)
}
