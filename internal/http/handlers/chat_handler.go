// README: Conversational flight search handler.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flightchat/internal/ai"
	"flightchat/internal/modules/flights"
)

type ChatHandler struct {
	flights *flights.Service
	timeout time.Duration
}

// NewChatHandler creates a handler; timeout bounds both outbound calls of one request.
func NewChatHandler(svc *flights.Service, timeout time.Duration) *ChatHandler {
	return &ChatHandler{flights: svc, timeout: timeout}
}

type chatMessageReq struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

type chatReq struct {
	Messages []chatMessageReq `json:"messages" binding:"required,min=1,dive"`
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: messages must be a non-empty list of {role, content}")
		return
	}

	conv := make([]flights.Turn, 0, len(req.Messages))
	for _, m := range req.Messages {
		conv = append(conv, flights.Turn{Role: ai.Role(m.Role), Content: m.Content})
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.flights.Resolve(ctx, conv)
	if err != nil {
		writeFlightError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
