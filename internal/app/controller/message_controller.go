package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
)

type MessageController struct {
	messageService service.MessageService
}

func NewMessageController(messageService service.MessageService) *MessageController {
	return &MessageController{
		messageService: messageService,
	}
}

type SubmitMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type UpdateMessageRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitMessage stores a contact form submission
// POST /api/messages
func (ctrl *MessageController) SubmitMessage(c *gin.Context) {
	var req SubmitMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := ctrl.messageService.SubmitMessage(service.SubmitMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, err, "Submit message")
		return
	}

	middleware.RecordMessageReceived()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages
// GET /api/messages?status=
func (ctrl *MessageController) ListMessages(c *gin.Context) {
	messages, err := ctrl.messageService.ListMessages(c.Query("status"))
	if err != nil {
		respondError(c, err, "List messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetMessage
// GET /api/messages/:id
func (ctrl *MessageController) GetMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	message, err := ctrl.messageService.GetMessage(id)
	if err != nil {
		respondError(c, err, "Get message")
		return
	}
	c.JSON(http.StatusOK, message)
}

// UpdateMessage changes the read/replied status
// PUT /api/messages/:id
func (ctrl *MessageController) UpdateMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := ctrl.messageService.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err, "Update message")
		return
	}
	c.JSON(http.StatusOK, message)
}

// DeleteMessage
// DELETE /api/messages/:id
func (ctrl *MessageController) DeleteMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.messageService.DeleteMessage(id); err != nil {
		respondError(c, err, "Delete message")
		return
	}
	messageResponse(c, "Message removed")
}
