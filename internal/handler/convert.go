package handler

import (
	"net/http"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// ConvertResponse is the result of the standalone currency calculator.
// When Resolved is false no rate was available; converted_amount and rate
// are omitted.
type ConvertResponse struct {
	Amount          decimal.Decimal  `json:"amount"`
	From            string           `json:"from"`
	To              string           `json:"to"`
	Date            *string          `json:"date,omitempty"`
	ConvertedAmount *decimal.Decimal `json:"converted_amount,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	Source          string           `json:"source,omitempty"`
	Resolved        bool             `json:"resolved"`
	AsOf            *time.Time       `json:"as_of,omitempty"`
}

// getConvert answers GET /convert?amount=&from=&to=&date=. date is optional
// and defaults to a current-rate lookup.
func (s *Server) getConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeBadRequest(w, "amount must be a decimal number")
		return
	}
	from := strings.ToUpper(strings.TrimSpace(q.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))
	if from == "" || to == "" {
		writeBadRequest(w, "from and to currency codes are required")
		return
	}

	var on time.Time
	if raw := q.Get("date"); raw != "" {
		var d openapi_types.Date
		if err := d.UnmarshalText([]byte(raw)); err != nil {
			writeBadRequest(w, "date must be yyyy-mm-dd")
			return
		}
		on = d.Time
	}

	conv, err := s.convert.Convert(r.Context(), amount, from, to, on)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ConvertResponse{
		Amount:   amount,
		From:     from,
		To:       to,
		Resolved: conv.Resolved,
	}
	if !on.IsZero() {
		d := on.Format("2006-01-02")
		resp.Date = &d
	}
	if conv.Resolved {
		resp.ConvertedAmount = &conv.Amount
		resp.Rate = &conv.Rate
		resp.Source = string(conv.Source)
		if !conv.AsOf.IsZero() {
			asOf := conv.AsOf
			resp.AsOf = &asOf
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
