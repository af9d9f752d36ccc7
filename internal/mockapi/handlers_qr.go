package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/qrtag/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) tagError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		failure(c, http.StatusNotFound, "QR code not found")
	case errors.Is(err, common.ErrTagAlreadyActive):
		failure(c, http.StatusConflict, "QR code already activated")
	case errors.Is(err, common.ErrTagNotOwned):
		failure(c, http.StatusForbidden, "You do not own this QR code")
	default:
		s.logger.Error(c.Request.Context(), "tag operation failed", "error", err)
		failure(c, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) getQRCode(c *gin.Context) {
	viewer := c.GetString(userIDKey)
	t, err := s.store.Scan(c.Param("code"), viewer)
	if err != nil {
		s.tagError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"qrCode": viewTag(t, viewer)}, "")
}

func (s *Server) activateQRCode(c *gin.Context) {
	var req Activation
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.ItemName) == "" || strings.TrimSpace(req.OwnerName) == "" || strings.TrimSpace(req.OwnerPhone) == "" {
		failure(c, http.StatusBadRequest, "Item name, owner name and phone are required")
		return
	}

	userID := c.GetString(userIDKey)
	t, err := s.store.Activate(c.Param("code"), userID, req)
	if err != nil {
		s.tagError(c, err)
		return
	}
	s.logger.Info(c.Request.Context(), "tag activated", "code", t.Code, "user_id", userID)
	success(c, http.StatusOK, gin.H{"qrCode": viewTag(t, userID)}, "QR code activated successfully")
}

func (s *Server) userQRCodes(c *gin.Context) {
	userID := c.GetString(userIDKey)
	tags := s.store.UserTags(userID)
	views := make([]tagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, viewTag(t, userID))
	}
	success(c, http.StatusOK, gin.H{"qrCodes": views}, "")
}

func (s *Server) updateQRCode(c *gin.Context) {
	var req TagPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := c.GetString(userIDKey)
	t, err := s.store.Update(c.Param("code"), userID, req)
	if err != nil {
		s.tagError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"qrCode": viewTag(t, userID)}, "QR code updated successfully")
}

func (s *Server) deleteQRCode(c *gin.Context) {
	userID := c.GetString(userIDKey)
	if err := s.store.Delete(c.Param("code"), userID); err != nil {
		s.tagError(c, err)
		return
	}
	s.logger.Info(c.Request.Context(), "tag released", "code", c.Param("code"), "user_id", userID)
	success(c, http.StatusOK, nil, "QR code deleted successfully")
}
