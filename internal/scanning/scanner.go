// Package scanning extracts draft expense fields from receipt images.
// The Scanner interface keeps the model provider swappable; the only
// production implementation talks to Google Gemini.
package scanning

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedType is returned for receipt uploads that are not PNG or
// JPEG. Handlers should map this to HTTP 415.
var ErrUnsupportedType = errors.New("unsupported receipt content type")

// ReceiptData is the draft expense extracted from a receipt. Nothing is
// persisted — the client reviews and submits it through the normal expense
// creation flow.
type ReceiptData struct {
	// Merchant is the vendor name as printed on the receipt.
	Merchant string `json:"merchant"`
	// Date is the purchase date in ISO 8601 (yyyy-mm-dd) form.
	Date string `json:"date"`
	// Amount is the receipt total in the receipt's own currency.
	Amount decimal.Decimal `json:"amount"`
	// Currency is the ISO 4217 code, best-effort from symbols or text.
	Currency string `json:"currency"`
	// Category is the model's suggestion, one of the app's category slugs.
	Category string `json:"category"`
}

// Scanner analyzes a receipt image and extracts draft expense fields.
type Scanner interface {
	ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*ReceiptData, error)
	// Close releases the underlying client.
	Close() error
}
