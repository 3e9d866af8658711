package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"course-store/internal/webhook"
)

type WebhookHandler struct {
	ingestor *webhook.Ingestor
	logger   *zap.Logger
}

func NewWebhookHandler(ingestor *webhook.Ingestor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{ingestor: ingestor, logger: logger}
}

type webhookAck struct {
	Received bool `json:"received"`
}

// Receive acknowledges every delivery with 200 except an explicit signature
// mismatch; anything else answered non-200 would make Scalev redeliver the
// event forever.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("webhook body read failed", zap.Error(err))
		writeJSON(w, http.StatusOK, webhookAck{Received: false})
		return
	}

	// header name changed between platform versions
	signature := r.Header.Get("X-Scalev-Signature")
	if signature == "" {
		signature = r.Header.Get("X-Signature")
	}

	received, err := h.ingestor.Ingest(r.Context(), body, signature)
	if errors.Is(err, webhook.ErrInvalidSignature) {
		writeError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	writeJSON(w, http.StatusOK, webhookAck{Received: received})
}

// Status is a liveness probe for webhook connectivity tests.
func (h *WebhookHandler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "Webhook endpoint is active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
