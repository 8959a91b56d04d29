package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voltera/site-backend/internal/chat"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type ChatResponder interface {
	Respond(ctx context.Context, req chat.Request) (*chat.Response, error)
}

type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ChatBackendInfo describes the configured model for the status probe and
// for unavailability messages.
type ChatBackendInfo struct {
	Provider string
	Model    string
	BaseURL  string
}

type ChatHandler struct {
	log    *logger.Logger
	chat   ChatResponder
	models ModelLister
	info   ChatBackendInfo
}

func NewChatHandler(log *logger.Logger, responder ChatResponder, models ModelLister, info ChatBackendInfo) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: responder, models: models, info: info}
}

type chatReq struct {
	Message             *string     `json:"message"`
	ConversationHistory []chat.Turn `json:"conversationHistory"`
	ProductID           string      `json:"productId"`
	CurrentPagePath     string      `json:"currentPagePath"`
}

type chatResp struct {
	Response       string `json:"response"`
	ContextUsed    bool   `json:"contextUsed"`
	SuggestContact bool   `json:"suggestContact"`
}

const errMessageRequired = "Message is required and must be a non-empty string"

// POST /api/chat
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "message" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMessageRequired})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessageRequired})
		return
	}

	resp, err := h.chat.Respond(c.Request.Context(), chat.Request{
		Message:   *req.Message,
		History:   req.ConversationHistory,
		ProductID: req.ProductID,
		PagePath:  req.CurrentPagePath,
	})
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResp{
		Response:       resp.Text,
		ContextUsed:    resp.ContextUsed,
		SuggestContact: resp.SuggestContact,
	})
}

func (h *ChatHandler) respondChatError(c *gin.Context, err error) {
	_ = c.Error(err)
	var be *chat.BackendError
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessageRequired})
	case errors.Is(err, chat.ErrBackendUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Language model backend unavailable",
			"message": h.unavailableMessage(),
			"details": err.Error(),
		})
	case errors.As(err, &be):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate response",
			"message": be.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate response",
			"message": err.Error(),
		})
	}
}

func (h *ChatHandler) unavailableMessage() string {
	target := h.info.BaseURL
	if target == "" {
		target = "the configured address"
	}
	return fmt.Sprintf("Could not reach the %s backend at %s. Make sure it is running and that model %q is available.", h.info.Provider, target, h.info.Model)
}

// GET /api/chat
func (h *ChatHandler) Status(c *gin.Context) {
	models, err := h.models.ListModels(c.Request.Context())
	if err != nil {
		h.log.Warn("Model backend status check failed", "provider", h.info.Provider, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unavailable",
			"available": false,
			"provider":  h.info.Provider,
			"model":     h.info.Model,
			"error":     "Language model backend unavailable",
			"message":   h.unavailableMessage(),
			"details":   err.Error(),
		})
		return
	}
	if models == nil {
		models = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"available":  true,
		"provider":   h.info.Provider,
		"model":      h.info.Model,
		"models":     models,
		"modelReady": containsModel(models, h.info.Model),
	})
}

// containsModel treats "llama3.1" and "llama3.1:latest" as the same model.
func containsModel(models []string, model string) bool {
	want := strings.TrimSuffix(strings.TrimSpace(model), ":latest")
	for _, m := range models {
		if strings.TrimSuffix(m, ":latest") == want {
			return true
		}
	}
	return false
}
