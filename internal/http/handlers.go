package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/account-service/internal/log"
	"github.com/tazhibayda/account-service/internal/metrics"
	"github.com/tazhibayda/account-service/internal/queue"
	"github.com/tazhibayda/account-service/internal/service"
)

// Pinger is what the health endpoint needs from the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Accounts *service.Accounts
	Store    Pinger
	Events   queue.Publisher
	Exchange string
}

func NewHandler(accounts *service.Accounts, store Pinger, pub queue.Publisher, exchange string) *Handler {
	return &Handler{Accounts: accounts, Store: store, Events: pub, Exchange: exchange}
}

// fail maps a lifecycle error onto the wire: expected errors carry their own
// message at 400, everything else is logged and turned into a generic 500.
func fail(c *gin.Context, err error, generic string) {
	if service.Expected(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	log.WithDD(c.Request.Context(), log.L()).Error(generic,
		zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": generic})
}

// Register godoc
// @Summary Register user
// @Tags accounts
// @Accept mpfd
// @Produce json
// @Param name formData string true "display name"
// @Param email formData string true "email"
// @Param password formData string true "password (min 6 chars)"
// @Param image formData file false "optional profile image"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/register [post]
func (h *Handler) Register(c *gin.Context) {
	in := service.RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	if fh, err := c.FormFile("image"); err == nil {
		in.Image = fh
	}

	a, err := h.Accounts.Register(c.Request.Context(), in)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(label(err)).Inc()
		fail(c, err, "registration failed")
		return
	}
	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()

	reqID := c.GetString(requestIDKey)
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), h.Exchange, "account.registered",
		queue.AccountRegistered{AccountID: a.ID, Email: a.Email, Name: a.Name}, reqID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered. Check email for verification.",
	})
}

// VerifyEmail godoc
// @Summary Verify email by code
// @Tags accounts
// @Produce json
// @Param code path string true "verification code"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/verify/{code} [get]
func (h *Handler) VerifyEmail(c *gin.Context) {
	a, err := h.Accounts.VerifyEmail(c.Request.Context(), c.Param("code"))
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues(label(err)).Inc()
		fail(c, err, "verification failed")
		return
	}
	metrics.VerificationsTotal.WithLabelValues("ok").Inc()

	reqID := c.GetString(requestIDKey)
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), h.Exchange, "account.verified",
		queue.AccountVerified{AccountID: a.ID, Email: a.Email}, reqID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login
// @Tags accounts
// @Accept json
// @Produce json
// @Param payload body loginReq true "credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	a, err := h.Accounts.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(label(err)).Inc()
		fail(c, err, "login failed")
		return
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	reqID := c.GetString(requestIDKey)
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), h.Exchange, "account.loggedin",
		queue.AccountLoggedIn{AccountID: a.ID, Email: a.Email}, reqID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    a.View(),
	})
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store != nil {
		if err := h.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func label(err error) string {
	if service.Expected(err) {
		return "rejected"
	}
	return "error"
}
