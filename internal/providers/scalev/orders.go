package scalev

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// Payment is completed on Scalev's hosted page; the link is derived from the
// order's secret slug, not fetched.
const paymentURLTemplate = "https://app.scalev.id/order/public/%s/success"

type CreateOrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	VariantUniqueID string
	Quantity        int
	PaymentMethod   string
}

type orderVariantPayload struct {
	Quantity        int    `json:"quantity"`
	VariantUniqueID string `json:"variant_unique_id"`
}

type createOrderPayload struct {
	StoreUniqueID string                `json:"store_unique_id"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail string                `json:"customer_email"`
	CustomerPhone string                `json:"customer_phone"`
	OrderVariants []orderVariantPayload `json:"ordervariants"`
	PaymentMethod string                `json:"payment_method"`
}

// CreatedOrder keeps the parsed essentials plus the raw upstream record so
// callers can pass the order through untouched.
type CreatedOrder struct {
	ID         Int64String     `json:"id"`
	SecretSlug string          `json:"secret_slug"`
	Raw        json.RawMessage `json:"-"`
}

// CreateOrder submits a single-variant order and derives the payment
// redirect URL. Not retried: a second attempt could double-order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreatedOrder, string, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "invoice"
	}

	payload := createOrderPayload{
		StoreUniqueID: c.StoreID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		OrderVariants: []orderVariantPayload{
			{Quantity: req.Quantity, VariantUniqueID: req.VariantUniqueID},
		},
		PaymentMethod: req.PaymentMethod,
	}

	c.logger.Info("creating order",
		zap.String("email", req.CustomerEmail),
		zap.String("variant", req.VariantUniqueID))

	body, err := c.do(ctx, http.MethodPost, "/order", nil, payload, noRetryConfig())
	if err != nil {
		return nil, "", fmt.Errorf("scalev: create order: %w", err)
	}

	data, err := unwrapData(body)
	if err != nil {
		return nil, "", err
	}

	var created CreatedOrder
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, "", fmt.Errorf("scalev: parse created order: %w", err)
	}
	created.Raw = data

	paymentURL := fmt.Sprintf(paymentURLTemplate, created.SecretSlug)

	c.logger.Info("order created",
		zap.Int64("order_id", int64(created.ID)),
		zap.String("secret_slug", created.SecretSlug))

	return &created, paymentURL, nil
}

// OrdersByEmail fetches the customer's orders in the configured store.
func (c *Client) OrdersByEmail(ctx context.Context, email string) ([]OrderRecord, error) {
	q := url.Values{}
	q.Set("customer_email", email)
	q.Set("store_unique_id", c.StoreID)

	body, err := c.do(ctx, http.MethodGet, "/orders", q, nil, readRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("scalev: fetch orders: %w", err)
	}

	results, ok := extractResults(body)
	if !ok {
		return nil, fmt.Errorf("scalev: unrecognized orders envelope")
	}

	orders := make([]OrderRecord, 0, len(results))
	for _, raw := range results {
		var o OrderRecord
		if err := json.Unmarshal(raw, &o); err != nil {
			c.logger.Warn("skipping unparseable order", zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Order re-reads one order. Payment state only ever changes upstream, so
// this is the sole way it reaches us outside of webhooks.
func (c *Client) Order(ctx context.Context, id string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, nil, readRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("scalev: fetch order %s: %w", id, err)
	}
	return unwrapData(body)
}

// PaymentStatus queries the dedicated payment-status endpoint for an order.
func (c *Client) PaymentStatus(ctx context.Context, id string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/orders/"+id+"/payment-status", nil, nil, readRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("scalev: payment status %s: %w", id, err)
	}
	return unwrapData(body)
}
