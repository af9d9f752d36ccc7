package mockapi

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Notification and upload endpoints only simulate their work: they wait for
// the configured delay, log what would have been sent and answer with a
// canned result.

// maxUploadSize bounds the multipart body accepted by uploadImage.
const maxUploadSize = 5 << 20

type whatsappReq struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type emailReq struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// pause waits for the stub delay; false means the client went away first.
func (s *Server) pause(c *gin.Context) bool {
	if s.cfg.StubDelay <= 0 {
		return true
	}
	t := time.NewTimer(s.cfg.StubDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.Request.Context().Done():
		return false
	}
}

func (s *Server) sendWhatsApp(c *gin.Context) {
	var req whatsappReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Message) == "" {
		failure(c, http.StatusBadRequest, "Recipient and message are required")
		return
	}
	if !s.pause(c) {
		return
	}

	id := uuid.NewString()
	s.logger.Info(c.Request.Context(), "whatsapp message simulated", "to", req.To, "message_id", id, "length", len(req.Message))
	success(c, http.StatusOK, gin.H{"messageId": id, "status": "queued"}, "WhatsApp message sent successfully")
}

func (s *Server) sendEmail(c *gin.Context) {
	var req emailReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" {
		failure(c, http.StatusBadRequest, "Recipient and subject are required")
		return
	}
	if !s.pause(c) {
		return
	}

	id := uuid.NewString()
	s.logger.Info(c.Request.Context(), "email simulated", "to", req.To, "subject", req.Subject, "message_id", id)
	success(c, http.StatusOK, gin.H{"messageId": id, "status": "queued"}, "Email sent successfully")
}

func (s *Server) uploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	file, err := c.FormFile("image")
	if err != nil {
		failure(c, http.StatusBadRequest, "Image file is required")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		failure(c, http.StatusBadRequest, "Unsupported image type")
		return
	}
	if !s.pause(c) {
		return
	}

	name := uuid.NewString() + ext
	s.logger.Info(c.Request.Context(), "image upload simulated", "filename", file.Filename, "size", file.Size, "stored_as", name)
	success(c, http.StatusOK, gin.H{"url": "/uploads/" + name, "size": file.Size}, "Image uploaded successfully")
}
