package domain

// Course is the canonical representation of a purchasable course inside this
// service. Scalev products/variants map into this model; it is derived on
// every request and never persisted.
type Course struct {
	VariantUniqueID string  `json:"variant_unique_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	ImageURL        string  `json:"image_url,omitempty"`
	Slug            string  `json:"slug"`
	Category        string  `json:"category,omitempty"`

	ProductID   int64  `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	VariantID   int64  `json:"variant_id,omitempty"`
	IsVariant   bool   `json:"is_variant"`

	// Sibling variants of the same product, filled on detail lookups only.
	AvailableVariants []VariantSummary `json:"available_variants,omitempty"`
}

type VariantSummary struct {
	VariantUniqueID string  `json:"variant_unique_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
}

// Enrollment is a derived view over a paid Order: "this customer owns this
// course". Recomputed per request, not stored.
type Enrollment struct {
	CourseID      string `json:"course_id"`
	CourseName    string `json:"course_name"`
	EnrolledAt    string `json:"enrolled_at"`
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}

// UserSession identifies a customer transiently. It is owned by the caller
// (browser/localStorage); this layer only ever receives it as input.
type UserSession struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
