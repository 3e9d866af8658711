package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"go.uber.org/zap"

	"course-store/internal/domain"
	"course-store/internal/mappers"
	"course-store/internal/providers/scalev"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type OrderHandler struct {
	client *scalev.Client
	logger *zap.Logger
}

func NewOrderHandler(client *scalev.Client, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{client: client, logger: logger}
}

type createOrderRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	VariantUniqueID string `json:"variant_unique_id"`
}

type createOrderResponse struct {
	Success    bool            `json:"success"`
	Order      json.RawMessage `json:"order"`
	PaymentURL string          `json:"paymentUrl"`
}

// Create validates the purchase request and submits it upstream. Validation
// failures never reach Scalev.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CustomerName == "" || req.CustomerEmail == "" || req.CustomerPhone == "" || req.VariantUniqueID == "" {
		writeError(w, http.StatusBadRequest,
			"Missing required fields: customer_name, customer_email, customer_phone, variant_unique_id")
		return
	}

	if !emailPattern.MatchString(req.CustomerEmail) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	phone := domain.NormalizePhone(req.CustomerPhone)
	if phone == "" {
		writeError(w, http.StatusBadRequest, "Invalid phone number")
		return
	}

	created, paymentURL, err := h.client.CreateOrder(r.Context(), scalev.CreateOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   phone,
		VariantUniqueID: req.VariantUniqueID,
		Quantity:        1,
	})
	if err != nil {
		// upstream body stays in the logs, the customer gets a retryable message
		h.logger.Error("order creation failed",
			zap.String("email", req.CustomerEmail),
			zap.String("variant", req.VariantUniqueID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create order. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, createOrderResponse{
		Success:    true,
		Order:      created.Raw,
		PaymentURL: paymentURL,
	})
}

// ListEnrollments returns the paid-order view for a customer. Upstream
// failures degrade to an empty list so a dashboard renders "no courses"
// instead of an error page.
func (h *OrderHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email parameter is required")
		return
	}

	orders, err := h.client.OrdersByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("orders lookup failed", zap.String("email", email), zap.Error(err))
		writeJSON(w, http.StatusOK, []domain.Enrollment{})
		return
	}

	writeJSON(w, http.StatusOK, mappers.OrdersToEnrollments(orders))
}
