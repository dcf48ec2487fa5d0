package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qupid-app/qupid-backend/internal/usecase/chat"
)

type ChatHandler struct {
	chatUseCase *chat.ChatUseCase
}

func NewChatHandler(chatUseCase *chat.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// SendMessage handles POST /chat/messages
// @Summary Send a message
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body chat.SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req chat.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.chatUseCase.SendMessage(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessages handles GET /chat/:user_id/messages
// @Summary Conversation history
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Other participant"
// @Success 200 {array} domain.Message
// @Router /chat/{user_id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.chatUseCase.ListMessages(c.Request.Context(), userID, c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
