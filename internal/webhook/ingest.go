package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidSignature is the only error Ingest ever returns. Everything past
// the signature gate is acknowledged regardless of outcome, so that Scalev's
// retry mechanism does not redeliver the same event indefinitely.
var ErrInvalidSignature = errors.New("webhook: invalid signature")

// Event is one delivery from Scalev: a type tag plus a loosely-typed payload.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PaymentData is the payload of payment-confirmed events. Identifier and
// status fields vary by platform version, so both spellings are carried.
type PaymentData struct {
	ID            Int64OrString `json:"id"`
	OrderID       Int64OrString `json:"order_id"`
	PaymentStatus string        `json:"payment_status"`
	CustomerEmail string        `json:"customer_email"`
	CustomerName  string        `json:"customer_name"`

	// Raw is the untouched payload, for handlers that need more fields.
	Raw json.RawMessage `json:"-"`
}

// orderRef is the best identifier available for the order.
func (d PaymentData) orderRef() string {
	if s := d.OrderID.String(); s != "" {
		return s
	}
	return d.ID.String()
}

// Int64OrString tolerates identifiers arriving as JSON numbers or strings.
type Int64OrString string

func (v *Int64OrString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = Int64OrString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*v = Int64OrString(n.String())
		return nil
	}
	*v = ""
	return nil
}

func (v Int64OrString) String() string { return string(v) }

// PaymentHandler is the side effect run when a payment is confirmed
// (grant access, notify). Its error is logged, never surfaced.
type PaymentHandler func(ctx context.Context, data PaymentData) error

// Ingestor verifies, parses and dispatches webhook deliveries.
type Ingestor struct {
	secret    string
	dedup     *Dedup
	onPayment PaymentHandler
	logger    *zap.Logger
}

func NewIngestor(secret string, dedup *Dedup, onPayment PaymentHandler, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if onPayment == nil {
		onPayment = LogGrantAccess(logger)
	}
	return &Ingestor{
		secret:    secret,
		dedup:     dedup,
		onPayment: onPayment,
		logger:    logger.With(zap.String("component", "webhook")),
	}
}

// Ingest runs one delivery through the state machine: verify, parse,
// dispatch. The boolean reports whether the event was processed; it is false
// for malformed payloads, which are still acknowledged upstream. The only
// possible error is ErrInvalidSignature.
func (in *Ingestor) Ingest(ctx context.Context, body []byte, signature string) (bool, error) {
	if in.secret != "" {
		if !VerifySignature(body, signature, in.secret) {
			in.logger.Error("invalid webhook signature")
			return false, ErrInvalidSignature
		}
	} else {
		// Intentional degradation for environments without a secret,
		// never a silent bypass.
		in.logger.Warn("no webhook secret configured, skipping verification")
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		in.logger.Error("unparseable webhook payload", zap.Error(err))
		return false, nil
	}

	switch ev.Event {
	case "order.payment_status_changed", "order.paid":
		in.dispatchPayment(ctx, ev)

	case "order.created":
		in.logger.Info("order created", zap.String("event", ev.Event))

	case "order.cancelled":
		in.logger.Info("order cancelled", zap.String("event", ev.Event))

	default:
		in.logger.Info("unhandled webhook event", zap.String("event", ev.Event))
	}

	return true, nil
}

func (in *Ingestor) dispatchPayment(ctx context.Context, ev Event) {
	var data PaymentData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		in.logger.Error("unparseable payment event data",
			zap.String("event", ev.Event), zap.Error(err))
		return
	}
	data.Raw = ev.Data

	if in.dedup != nil {
		key := fmt.Sprintf("%s|%s", ev.Event, data.orderRef())
		if data.orderRef() != "" && in.dedup.Seen(key) {
			in.logger.Info("duplicate payment event suppressed",
				zap.String("event", ev.Event),
				zap.String("order", data.orderRef()))
			return
		}
	}

	if err := in.onPayment(ctx, data); err != nil {
		// ack-always: dispatch failures are observability-only
		in.logger.Error("payment handler failed",
			zap.String("event", ev.Event),
			zap.String("order", data.orderRef()),
			zap.Error(err))
	}
}

// LogGrantAccess is the default payment side effect: record that the
// customer now owns what they paid for. Real granting happens on the Scalev
// side (digital delivery), so a durable log line is the contract here.
func LogGrantAccess(logger *zap.Logger) PaymentHandler {
	return func(_ context.Context, data PaymentData) error {
		logger.Info("course access granted",
			zap.String("order", data.orderRef()),
			zap.String("email", data.CustomerEmail),
			zap.String("customer", data.CustomerName),
			zap.String("payment_status", data.PaymentStatus))
		return nil
	}
}
