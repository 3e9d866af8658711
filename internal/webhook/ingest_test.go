package webhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestIngestDispatchesPayment(t *testing.T) {
	var got PaymentData
	calls := 0
	in := NewIngestor("secret", nil, func(_ context.Context, data PaymentData) error {
		calls++
		got = data
		return nil
	}, zap.NewNop())

	body := []byte(`{"event":"order.paid","data":{"id":"o1","customer_email":"jane@x.com","payment_status":"paid"}}`)

	processed, err := in.Ingest(context.Background(), body, Sign(body, "secret"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !processed {
		t.Error("Expected event to be processed")
	}
	if calls != 1 {
		t.Fatalf("Expected handler called once, got %d", calls)
	}
	if got.CustomerEmail != "jane@x.com" {
		t.Errorf("Expected customer email carried, got %q", got.CustomerEmail)
	}
	if got.ID.String() != "o1" {
		t.Errorf("Expected order id o1, got %q", got.ID.String())
	}
	if got.PaymentStatus != "paid" {
		t.Errorf("Expected payment_status paid, got %q", got.PaymentStatus)
	}
	if len(got.Raw) == 0 {
		t.Error("Expected raw payload carried")
	}
}

func TestIngestInvalidSignature(t *testing.T) {
	calls := 0
	in := NewIngestor("secret", nil, func(context.Context, PaymentData) error {
		calls++
		return nil
	}, zap.NewNop())

	body := []byte(`{"event":"order.paid","data":{"id":1}}`)

	processed, err := in.Ingest(context.Background(), body, "deadbeef")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected ErrInvalidSignature, got %v", err)
	}
	if processed {
		t.Error("Expected processed=false on signature failure")
	}
	if calls != 0 {
		t.Error("Expected handler not to run on signature failure")
	}
}

func TestIngestNoSecretSkipsVerification(t *testing.T) {
	calls := 0
	in := NewIngestor("", nil, func(context.Context, PaymentData) error {
		calls++
		return nil
	}, zap.NewNop())

	body := []byte(`{"event":"order.payment_status_changed","data":{"order_id":42}}`)

	processed, err := in.Ingest(context.Background(), body, "")
	if err != nil {
		t.Fatalf("Expected no error without a secret, got %v", err)
	}
	if !processed || calls != 1 {
		t.Errorf("Expected dispatch without verification, processed=%v calls=%d", processed, calls)
	}
}

func TestIngestMalformedPayload(t *testing.T) {
	in := NewIngestor("", nil, nil, zap.NewNop())

	processed, err := in.Ingest(context.Background(), []byte(`not json`), "")
	if err != nil {
		t.Fatalf("Expected malformed payload to be acknowledged, got %v", err)
	}
	if processed {
		t.Error("Expected processed=false for malformed payload")
	}
}

func TestIngestHandlerErrorSwallowed(t *testing.T) {
	in := NewIngestor("", nil, func(context.Context, PaymentData) error {
		return errors.New("downstream broke")
	}, zap.NewNop())

	body := []byte(`{"event":"order.paid","data":{"id":1}}`)

	processed, err := in.Ingest(context.Background(), body, "")
	if err != nil {
		t.Errorf("Expected handler error swallowed, got %v", err)
	}
	if !processed {
		t.Error("Expected processed=true despite handler error")
	}
}

func TestIngestSuppressesDuplicates(t *testing.T) {
	calls := 0
	in := NewIngestor("", NewDedup(time.Minute), func(context.Context, PaymentData) error {
		calls++
		return nil
	}, zap.NewNop())

	body := []byte(`{"event":"order.paid","data":{"id":"o1"}}`)

	for i := 0; i < 3; i++ {
		if _, err := in.Ingest(context.Background(), body, ""); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected redeliveries suppressed, handler ran %d times", calls)
	}
}

func TestIngestNonPaymentEvents(t *testing.T) {
	calls := 0
	in := NewIngestor("", nil, func(context.Context, PaymentData) error {
		calls++
		return nil
	}, zap.NewNop())

	for _, body := range []string{
		`{"event":"order.created","data":{"id":1}}`,
		`{"event":"order.cancelled","data":{"id":1}}`,
		`{"event":"something.else","data":{}}`,
	} {
		processed, err := in.Ingest(context.Background(), []byte(body), "")
		if err != nil || !processed {
			t.Errorf("Expected %s acknowledged, processed=%v err=%v", body, processed, err)
		}
	}
	if calls != 0 {
		t.Errorf("Expected payment handler untouched, got %d calls", calls)
	}
}
