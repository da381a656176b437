// Conversation HTTP handlers: direct messages between two users.
// Delivery is polling-based.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StartConversationRequest opens (or reuses) a conversation with another
// user.
type StartConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// SendMessageRequest is the JSON payload for a direct message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// StartConversation godoc
// @ID          startConversation
// @Summary     Open a conversation with another user
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body handlers.StartConversationRequest true "Counterparty"
// @Success     201 {object} domain.Conversation
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /conversations [post]
func (h *Handlers) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	conv, err := h.Conversations.Start(c.Request.Context(), userID(c), req.UserID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, conv)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List own conversations with their latest message
// @Tags        Messages
// @Produce     json
// @Success     200 {array} services.ConversationView
// @Router      /conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	convs, err := h.Conversations.List(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, convs)
}

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a direct message
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       id   path string true "Conversation ID (UUID)" format(uuid)
// @Param       body body handlers.SendMessageRequest true "Message payload"
// @Success     201 {object} domain.Message
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /conversations/{id}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	msg, err := h.Conversations.Send(c.Request.Context(), userID(c), c.Param("id"), req.Content)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}

// MessageHistory godoc
// @ID          messageHistory
// @Summary     Read a conversation's history
// @Tags        Messages
// @Produce     json
// @Param       id path string true "Conversation ID (UUID)" format(uuid)
// @Success     200 {array} domain.Message
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /conversations/{id}/messages [get]
func (h *Handlers) MessageHistory(c *gin.Context) {
	msgs, err := h.Conversations.History(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, msgs)
}
