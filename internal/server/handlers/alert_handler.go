package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/service/alerts"
)

// AlertService describes the notification operations the HTTP layer exposes.
type AlertService interface {
	Digest(ctx context.Context) (alerts.Digest, error)
	SendDigest(ctx context.Context) (bool, error)
	SendOutbound(ctx context.Context, msg models.OutboundMessage) error
}

// AlertHandler exposes the stock digest and manual operator notifications.
type AlertHandler struct {
	svc    AlertService
	logger *zap.Logger
}

// NewAlertHandler constructs the HTTP handler adapter.
func NewAlertHandler(svc AlertService, logger *zap.Logger) *AlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertHandler{svc: svc, logger: logger}
}

// Digest renders the current digest without sending it.
func (h *AlertHandler) Digest(c *gin.Context) {
	digest, err := h.svc.Digest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, digest)
}

// SendDigest pushes the digest to the configured recipient.
func (h *AlertHandler) SendDigest(c *gin.Context) {
	sent, err := h.svc.SendDigest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusAccepted, gin.H{"sent": sent})
}

// SendMessage sends a manual notification.
func (h *AlertHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessage
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusAccepted, nil)
}
