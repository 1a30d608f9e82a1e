package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/service"
)

func TestConvertService_Convert(t *testing.T) {
	svc := service.NewConvertService(identityConverter())

	conv, err := svc.Convert(context.Background(), dec("25"), "EUR", "USD", time.Time{})

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	assert.True(t, conv.Amount.Equal(dec("25")))
}

func TestConvertService_Convert_NonPositiveAmount(t *testing.T) {
	svc := service.NewConvertService(identityConverter())

	_, err := svc.Convert(context.Background(), dec("0"), "EUR", "USD", time.Time{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConvertService_Convert_UnresolvedPassesThrough(t *testing.T) {
	svc := service.NewConvertService(unresolvedConverter())

	conv, err := svc.Convert(context.Background(), dec("10"), "XXX", "USD", time.Time{})

	require.NoError(t, err)
	assert.False(t, conv.Resolved)
}
