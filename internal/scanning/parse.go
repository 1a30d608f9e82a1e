package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateFormats are tried in order when the model ignores the yyyy-mm-dd
// instruction. Receipts from US merchants tend to come back mm/dd/yyyy.
var dateFormats = []string{"2006-01-02", "2006/01/02", "01/02/2006", "02-01-2006"}

// parseReceiptJSON extracts the ReceiptData object from a model response.
// Models wrap JSON in markdown fences or prose often enough that we locate
// the outermost braces instead of trusting the whole payload.
func parseReceiptJSON(text string) (*ReceiptData, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var data ReceiptData
	if err := json.Unmarshal([]byte(text[start:end+1]), &data); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}

	data.Merchant = strings.TrimSpace(data.Merchant)
	data.Currency = strings.ToUpper(strings.TrimSpace(data.Currency))
	data.Category = normalizeCategory(data.Category)
	data.Date = normalizeDate(data.Date)

	return &data, nil
}

// normalizeDate reparses whatever date form the model produced into
// yyyy-mm-dd, or returns empty when it is unusable. An absent date is left
// for the user to fill in — guessing "today" would silently misfile
// old receipts.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, format := range dateFormats {
		if d, err := time.Parse(format, s); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return ""
}

// normalizeCategory lower-cases the model's suggestion and falls back to
// "other" for anything outside the closed category set.
func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "food", "transport", "flights", "lodging", "activities", "shopping", "health", "other":
		return s
	}
	return "other"
}
