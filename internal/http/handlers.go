package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"messagely/internal/metrics"
	"messagely/internal/service"
)

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sendMessageRequest struct {
	ToUsername string `json:"to_username" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.RegisterAndIssue(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.writeError(c, "register", err)
		return
	}

	h.logger.WithField("username", req.Username).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, service.ErrInvalidCredentials):
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		h.logger.WithField("username", req.Username).Warn("login rejected")
	default:
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
	}
	if err != nil {
		h.writeError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) listUsers(c *gin.Context) {
	profiles, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "list users", err)
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = profileToResponse(profiles[i])
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), identity(c), c.Param("username"))
	if err != nil {
		h.writeError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(*user)})
}

func (h *Handler) listSent(c *gin.Context) {
	msgs, err := h.messages.ListFrom(c.Request.Context(), identity(c), c.Param("username"))
	if err != nil {
		h.writeError(c, "list sent", err)
		return
	}

	resp := make([]SentMessageResponse, len(msgs))
	for i := range msgs {
		resp[i] = sentToResponse(msgs[i])
	}
	c.JSON(http.StatusOK, gin.H{"messages": resp})
}

func (h *Handler) listReceived(c *gin.Context) {
	msgs, err := h.messages.ListTo(c.Request.Context(), identity(c), c.Param("username"))
	if err != nil {
		h.writeError(c, "list received", err)
		return
	}

	resp := make([]ReceivedMessageResponse, len(msgs))
	for i := range msgs {
		resp[i] = receivedToResponse(msgs[i])
	}
	c.JSON(http.StatusOK, gin.H{"messages": resp})
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), identity(c), req.ToUsername, req.Body)
	if err != nil {
		h.writeError(c, "send message", err)
		return
	}

	metrics.MessagesSentTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"message": createdToResponse(*msg)})
}

func (h *Handler) getMessage(c *gin.Context) {
	id, ok := parseMessageID(c)
	if !ok {
		return
	}

	msg, err := h.messages.Get(c.Request.Context(), identity(c), id)
	if err != nil {
		h.writeError(c, "get message", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": detailToResponse(*msg)})
}

func (h *Handler) markRead(c *gin.Context) {
	id, ok := parseMessageID(c)
	if !ok {
		return
	}

	msg, err := h.messages.MarkRead(c.Request.Context(), identity(c), id)
	if err != nil {
		h.writeError(c, "mark read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": readToResponse(*msg)})
}

func (h *Handler) createExport(c *gin.Context) {
	export, err := h.exports.Export(c.Request.Context(), identity(c), c.Param("username"))
	if err != nil {
		h.writeError(c, "export mailbox", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"username": identity(c),
		"location": export.Location,
		"messages": export.Messages,
	}).Info("mailbox exported")
	c.JSON(http.StatusCreated, gin.H{"export": exportToResponse(*export)})
}

func (h *Handler) listExports(c *gin.Context) {
	objects, err := h.exports.ListExports(c.Request.Context(), identity(c), c.Param("username"))
	if err != nil {
		h.writeError(c, "list exports", err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, gin.H{"exports": resp})
}

func (h *Handler) deleteExports(c *gin.Context) {
	username := c.Param("username")
	if err := h.exports.DeleteExports(c.Request.Context(), identity(c), username); err != nil {
		h.writeError(c, "delete exports", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}
