package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"messagely/internal/metrics"
	"messagely/internal/service"
)

const identityKey = "identity"

// TokenVerifier resolves a bearer token to the username it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	messages service.MessageService
	exports  service.ExportService
	tokens   TokenVerifier
	logger   *logrus.Logger
}

func NewHandler(users service.UserService, messages service.MessageService, exports service.ExportService, tokens TokenVerifier, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:    users,
		messages: messages,
		exports:  exports,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), h.requestLogger(), metrics.GinMiddleware())
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	authed := api.Group("", h.requireAuth())
	{
		authed.GET("/users", h.listUsers)
		authed.GET("/users/:username", h.getUser)
		authed.GET("/users/:username/from", h.listSent)
		authed.GET("/users/:username/to", h.listReceived)
		authed.POST("/users/:username/exports", h.createExport)
		authed.GET("/users/:username/exports", h.listExports)
		authed.DELETE("/users/:username/exports", h.deleteExports)

		authed.POST("/messages", h.sendMessage)
		authed.GET("/messages/:id", h.getMessage)
		authed.POST("/messages/:id/read", h.markRead)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"route":   c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if identity := c.GetString(identityKey); identity != "" {
			fields["username"] = identity
		}
		h.logger.WithFields(fields).Info("request")
	}
}

// requireAuth resolves the bearer token before any handler that touches
// users or messages runs.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.TokenRejectionsTotal.Inc()
			h.logger.WithField("path", c.Request.URL.Path).Warn("missing bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		username, err := h.tokens.Verify(raw)
		if err != nil {
			metrics.TokenRejectionsTotal.Inc()
			h.logger.WithField("path", c.Request.URL.Path).Warn("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, username)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func identity(c *gin.Context) string {
	return c.GetString(identityKey)
}

func parseMessageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return 0, false
	}
	return id, true
}
