package domain

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Order mirrors a Scalev order. Orders are created by this layer and then
// mutated upstream as payment state changes; we only ever re-read them.
type Order struct {
	OrderID       string        `json:"order_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     string        `json:"created_at"`
	TotalAmount   float64       `json:"total_amount"`
	Items         []OrderItem   `json:"items"`
}

type OrderItem struct {
	VariantUniqueID string  `json:"variant_unique_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
}
