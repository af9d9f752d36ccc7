package mockapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/common"
	"github.com/dmitrijs2005/qrtag/internal/logging"
	"github.com/dmitrijs2005/qrtag/internal/mockapi/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "userID"

// requestLogger logs one line per request and echoes the request id back.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(common.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(common.RequestIDHeader, id)

		c.Next()

		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", id,
		)
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader(common.AuthorizationHeader)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAuth rejects requests without a valid bearer token and stores the
// caller's user id in the context.
func requireAuth(secret []byte, store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			failure(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		userID, err := auth.GetUserIDFromToken(token, secret)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "Token expired"
			}
			failure(c, http.StatusUnauthorized, msg)
			return
		}
		if _, err := store.UserByID(userID); err != nil {
			failure(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// optionalAuth identifies the caller when a valid token is sent and lets
// anonymous requests through.
func optionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, err := auth.GetUserIDFromToken(token, secret); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}
