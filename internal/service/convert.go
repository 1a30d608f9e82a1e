package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/fx"
)

// ConvertService backs the standalone currency calculator endpoint with the
// same resolver the expense write path uses, so the two can never disagree
// about rate orientation.
type ConvertService struct {
	fx Converter
}

// NewConvertService constructs a ConvertService.
func NewConvertService(converter Converter) *ConvertService {
	return &ConvertService{fx: converter}
}

// Convert resolves amount from one currency into another as of a date.
// An unresolved result is returned as-is — the handler reports the
// unavailability, it is not an error.
func (s *ConvertService) Convert(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time) (fx.Conversion, error) {
	if !amount.IsPositive() {
		return fx.Conversion{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	conv, err := s.fx.Convert(ctx, amount, from, to, on, nil)
	if err != nil {
		return fx.Conversion{}, fmt.Errorf("service.ConvertService.Convert: %w", err)
	}
	return conv, nil
}
