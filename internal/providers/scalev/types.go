package scalev

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Scalev wraps most responses in { code, status, data }. Some deployments
// answer bare, so the envelope is always optional.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func unwrapData(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return env.Data, nil
	}
	return body, nil
}

// Product is the Scalev product record. A product may bundle several
// purchasable variants (price tiers of a course).
type Product struct {
	ID              Int64String `json:"id"`
	UUID            string      `json:"uuid"`
	Name            string      `json:"name"`
	Display         string      `json:"display"`
	Description     string      `json:"description"`
	RichDescription string      `json:"rich_description"`
	ItemTypeName    string      `json:"item_type_name"`
	Images          []string    `json:"images"`
	Price           FlexNumber  `json:"price"`
	IsMultiple      bool        `json:"is_multiple"`
	Variants        []Variant   `json:"variants"`
}

type Variant struct {
	ID           Int64String `json:"id"`
	UniqueID     string      `json:"unique_id"`
	Name         string      `json:"name"`
	Price        FlexNumber  `json:"price"`
	PriceBT      FlexNumber  `json:"price_bt"`
	BasePrice    FlexNumber  `json:"base_price"`
	SelfFileURLs []string    `json:"self_file_urls"`
	Images       []string    `json:"images"`
}

// OrderRecord is the Scalev order as returned by listing and detail calls.
// Field names differ across platform versions (payment_status vs status,
// ordervariants vs items), so both spellings are carried.
type OrderRecord struct {
	ID            Int64String    `json:"id"`
	OrderID       string         `json:"order_id"`
	PaymentStatus string         `json:"payment_status"`
	Status        string         `json:"status"`
	CreatedAt     string         `json:"created_at"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone"`
	TotalAmount   FlexNumber     `json:"total_amount"`
	OrderVariants []OrderVariant `json:"ordervariants"`
	Items         []OrderVariant `json:"items"`
}

type OrderVariant struct {
	VariantUniqueID string      `json:"variant_unique_id"`
	ProductID       Int64String `json:"product_id"`
	ProductName     string      `json:"product_name"`
	Name            string      `json:"name"`
	Quantity        int         `json:"quantity"`
	Price           FlexNumber  `json:"price"`
}

/* -------- result-list extraction -------- */

// resultExtractors are the known listing envelope shapes, in priority order.
// The first shape present in the body wins.
var resultExtractors = []func([]byte) ([]json.RawMessage, bool){
	extractDataResults, // { data: { results: [...] } }
	extractBareResults, // { results: [...] }
	extractArray,       // [...]
}

func extractResults(body []byte) ([]json.RawMessage, bool) {
	for _, extract := range resultExtractors {
		if list, ok := extract(body); ok {
			return list, true
		}
	}
	return nil, false
}

func extractDataResults(body []byte) ([]json.RawMessage, bool) {
	var env struct {
		Data struct {
			Results *[]json.RawMessage `json:"results"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Data.Results == nil {
		return nil, false
	}
	return *env.Data.Results, true
}

func extractBareResults(body []byte) ([]json.RawMessage, bool) {
	var env struct {
		Results *[]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Results == nil {
		return nil, false
	}
	return *env.Results, true
}

func extractArray(body []byte) ([]json.RawMessage, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, false
	}
	return list, true
}

/* -------- tolerant scalar types -------- */

// FlexNumber is a numeric field that may arrive as a JSON number, a numeric
// string ("50000"), null, or be absent. Unparseable values count as absent
// rather than failing the whole record.
type FlexNumber struct {
	value float64
	valid bool
}

func (n FlexNumber) Value() (float64, bool) { return n.value, n.valid }

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = FlexNumber{}
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*n = FlexNumber{}
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			*n = FlexNumber{}
			return nil
		}
		*n = FlexNumber{value: f, valid: true}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = FlexNumber{}
		return nil
	}
	*n = FlexNumber{value: f, valid: true}
	return nil
}

// Int64String is an identifier that may arrive as a JSON number or as a
// quoted number.
type Int64String int64

func (v *Int64String) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = Int64String(n)
	return nil
}

func (v Int64String) String() string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(int64(v), 10)
}
