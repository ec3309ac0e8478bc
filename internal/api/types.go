package api

// Wire types mirror the backend's JSON. The backend omits or nulls fields the
// OCR pipeline could not extract, so fetched receipts go through Normalize
// before anything renders them.

// Receipt is one uploaded, processed purchase record. Receipts are created by
// the upload pipeline only; this client never mutates them directly.
type Receipt struct {
	ID            int64   `json:"id"`
	StoreName     string  `json:"storeName"`
	ReceiptDate   string  `json:"receiptDate"` // YYYY-MM-DD, used verbatim as the grouping key
	TotalAmount   float64 `json:"totalAmount"`
	TotalDiscount float64 `json:"totalDiscount"`
	Items         []Item  `json:"items"`
}

// Item is one line within a receipt. IDs are assigned by the backend; the
// owning receipt never changes after creation.
type Item struct {
	ID       int64   `json:"id"`
	ItemName string  `json:"itemName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ItemInput is the create/update request body. Quantity must be a positive
// integer and price non-negative; Validate runs these rules before any
// request is sent.
type ItemInput struct {
	ItemName string  `json:"itemName" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

const (
	// UnknownStore substitutes a missing store name.
	UnknownStore = "Unknown Store"
	// UnnamedItem substitutes a missing item name.
	UnnamedItem = "Unnamed Item"
)

// Normalize applies the default substitutions for fields the backend left
// empty: store name, item name, quantity (a zero or negative quantity counts
// as missing and becomes 1). Amounts default to zero already by decoding.
// It mutates and returns its argument.
func Normalize(receipts []Receipt) []Receipt {
	for i := range receipts {
		r := &receipts[i]
		if r.StoreName == "" {
			r.StoreName = UnknownStore
		}
		for j := range r.Items {
			it := &r.Items[j]
			if it.ItemName == "" {
				it.ItemName = UnnamedItem
			}
			if it.Quantity <= 0 {
				it.Quantity = 1
			}
		}
	}
	return receipts
}
