package mockapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/qrtag/internal/mockapi/auth"
	"github.com/gin-gonic/gin"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		failure(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	// 401 is reserved for rejected tokens; the client drops its session on it.
	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		failure(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.secret, s.cfg.TokenTTL)
	if err != nil {
		s.logger.Error(c.Request.Context(), "token generation failed", "error", err)
		failure(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  viewUser(user, s.store.Stats(user.ID)),
	}, "Login successful")
}

type forgotReq struct {
	Email string `json:"email"`
}

// forgotPassword answers the same way whether or not the account exists.
func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		failure(c, http.StatusBadRequest, "Email is required")
		return
	}
	if s.store.HasEmail(req.Email) {
		s.logger.Info(c.Request.Context(), "password reset requested", "email", req.Email)
	}
	success(c, http.StatusOK, nil, "If an account exists for this email, a reset link has been sent")
}

func (s *Server) me(c *gin.Context) {
	userID := c.GetString(userIDKey)
	user, err := s.store.UserByID(userID)
	if err != nil {
		failure(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	success(c, http.StatusOK, gin.H{"user": viewUser(user, s.store.Stats(user.ID))}, "")
}
