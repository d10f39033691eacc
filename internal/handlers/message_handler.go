package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"echobox/internal/pdf"
	"echobox/internal/services"
)

type MessageHandler struct {
	inbox            services.InboxService
	users            services.UserService
	exporter         pdf.Exporter
	maxContentLength int
}

type sendMessageRequest struct {
	Username string `json:"username" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type acceptMessagesRequest struct {
	// pointer so that an explicit false still binds
	AcceptMessages *bool `json:"acceptMessages" binding:"required"`
}

func NewMessageHandler(inbox services.InboxService, users services.UserService, exporter pdf.Exporter, maxContentLength int) *MessageHandler {
	if maxContentLength <= 0 {
		maxContentLength = 300
	}
	return &MessageHandler{
		inbox:            inbox,
		users:            users,
		exporter:         exporter,
		maxContentLength: maxContentLength,
	}
}

// SendMessage is the public, unauthenticated ingestion endpoint.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Message content is required"})
		return
	}
	if utf8.RuneCountInString(content) > h.maxContentLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Message must be at most %d characters", h.maxContentLength),
		})
		return
	}

	if _, err := h.inbox.SendMessage(req.Username, content); err != nil {
		switch err {
		case services.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		case services.ErrNotAcceptingMessages:
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "User is not accepting messages"})
		default:
			log.Printf("[inbox][send] target=%q err=%v", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending message"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Message sent successfully"})
}

func (h *MessageHandler) GetMessages(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	messages, err := h.inbox.ListMessages(identity.ID)
	if err != nil {
		log.Printf("[inbox][list] user_id=%d err=%v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	// an empty inbox answers 404, not an empty list; clients rely on it
	if len(messages) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No messages found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

func (h *MessageHandler) GetAcceptMessages(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	user, err := h.users.GetUserByID(identity.ID)
	if err != nil {
		log.Printf("[inbox][accept-get] user_id=%d err=%v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve user status"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isAcceptingMessages": user.AcceptMessages})
}

func (h *MessageHandler) SetAcceptMessages(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	var req acceptMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	updated, err := h.inbox.SetAcceptingMessages(identity.ID, *req.AcceptMessages)
	if err != nil {
		if err == services.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Failed to update user status"})
			return
		}
		log.Printf("[inbox][accept-set] user_id=%d err=%v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message acceptance status updated successfully",
		"user":    updated,
	})
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid message ID"})
		return
	}

	if err := h.inbox.DeleteMessage(identity.ID, messageID); err != nil {
		if err == services.ErrMessageNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Message not found"})
			return
		}
		log.Printf("[inbox][delete] user_id=%d message_id=%s err=%v", identity.ID, messageID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message deleted"})
}

// ExportMessages renders the whole inbox as a downloadable PDF.
func (h *MessageHandler) ExportMessages(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	messages, err := h.inbox.ListMessages(identity.ID)
	if err != nil {
		log.Printf("[inbox][export] user_id=%d err=%v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.ExportInbox(&buf, identity.Username, messages); err != nil {
		log.Printf("[inbox][export] pdf failed: user_id=%d err=%v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate PDF"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="messages.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
