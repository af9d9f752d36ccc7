// Package mockapi is a local stand-in for the tag API. It serves the same
// REST contract as the production backend from memory so the CLI can be
// exercised end to end without one.
package mockapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/qrtag/internal/common"
	"github.com/dmitrijs2005/qrtag/internal/logging"
	"github.com/dmitrijs2005/qrtag/internal/mockapi/config"
	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg    *config.Config
	logger logging.Logger
	store  *Store
	secret []byte
	router *gin.Engine
}

// NewServer seeds the demo account and tags and builds the router.
func NewServer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger.With("module", "mockapi"),
		store:  NewStore(),
		secret: []byte(cfg.JWTSecret),
	}

	if len(s.secret) == 0 {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		s.secret = []byte(secret)
		s.logger.Warn(ctx, "no jwt secret configured, issued tokens will not survive a restart")
	}

	if cfg.DemoEmail != "" {
		if _, err := s.store.AddUser("Demo User", cfg.DemoEmail, cfg.DemoPassword); err != nil {
			return nil, fmt.Errorf("seed demo user: %w", err)
		}
	}
	for _, code := range cfg.DemoTags {
		s.store.AddTag(code)
	}
	s.logger.Info(ctx, "demo data seeded", "email", cfg.DemoEmail, "tags", len(cfg.DemoTags))

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) { success(c, http.StatusOK, gin.H{"status": "ok"}, "") })

	api.POST("/auth/login", s.login)
	api.POST("/auth/forgot-password", s.forgotPassword)

	api.POST("/send-whatsapp", s.sendWhatsApp)
	api.POST("/send-email", s.sendEmail)
	api.POST("/upload-image", s.uploadImage)

	api.GET("/qr/:code", optionalAuth(s.secret), s.getQRCode)

	protected := api.Group("")
	protected.Use(requireAuth(s.secret, s.store))
	protected.GET("/auth/me", s.me)
	protected.GET("/qr/user", s.userQRCodes)
	protected.POST("/qr/:code/activate", s.activateQRCode)
	protected.PUT("/qr/:code", s.updateQRCode)
	protected.DELETE("/qr/:code", s.deleteQRCode)

	r.NoRoute(func(c *gin.Context) { failure(c, http.StatusNotFound, "Not found") })
	return r
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store gives access to the backing data, e.g. to add users in tests.
func (s *Server) Store() *Store {
	return s.store
}
