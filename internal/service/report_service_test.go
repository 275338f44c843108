package service_test

import (
	"context"
	"testing"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSummary_ValidPeriods(t *testing.T) {
	repo := newStubSaleRepo()
	repo.income = decimal.NewFromFloat(1234.50)
	repo.top = []dto.TopProduct{
		{Name: "Café 250g", Qty: 42},
		{Name: "Azúcar 1kg", Qty: 17},
	}
	svc := service.NewReportService(repo, nil)

	for _, period := range []string{"today", "week", "month", "all"} {
		report, err := svc.Summary(context.Background(), period)
		require.NoError(t, err, period)
		assert.Equal(t, "1234.5", report.TotalIncome.String())
		require.Len(t, report.TopProducts, 2)
		assert.Equal(t, "Café 250g", report.TopProducts[0].Name)
		assert.Equal(t, int64(42), report.TopProducts[0].Qty)
	}
}

func TestReportSummary_InvalidPeriod(t *testing.T) {
	svc := service.NewReportService(newStubSaleRepo(), nil)

	for _, period := range []string{"", "yesterday", "TODAY", "año"} {
		_, err := svc.Summary(context.Background(), period)
		assert.ErrorIs(t, err, service.ErrInvalidPeriod, period)
	}
}

func TestReportSummary_EmptyHistory(t *testing.T) {
	repo := newStubSaleRepo()
	repo.income = decimal.Zero
	svc := service.NewReportService(repo, nil)

	report, err := svc.Summary(context.Background(), "all")
	require.NoError(t, err)
	assert.True(t, report.TotalIncome.IsZero())
	assert.NotNil(t, report.TopProducts)
	assert.Empty(t, report.TopProducts)
}
