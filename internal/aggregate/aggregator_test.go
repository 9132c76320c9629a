package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travecoqs/internal/config"
	"travecoqs/pkg/contracts/domain"
)

func carrier(id int64) *int64 { return &id }

func TestAggregator_CarrierType(t *testing.T) {
	aggregator := NewAggregator(nil, config.Default().Filtering)

	tests := []struct {
		name string
		id   *int64
		want domain.CarrierType
	}{
		{name: "absent", id: nil, want: domain.CarrierUnknown},
		{name: "internal boundary", id: carrier(8889), want: domain.CarrierInternal},
		{name: "internal low", id: carrier(12), want: domain.CarrierInternal},
		{name: "external boundary", id: carrier(9000), want: domain.CarrierExternal},
		{name: "external high", id: carrier(95001), want: domain.CarrierExternal},
		{name: "gap between bounds", id: carrier(8950), want: domain.CarrierUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregator.CarrierType(tt.id))
		})
	}
}

func TestAggregator_Summarize(t *testing.T) {
	aggregator := NewAggregator(nil, config.Default().Filtering)
	june := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	orders := []domain.Order{
		{DispatchCenterName: "Oberbuchsiten", Date: june, Category: domain.CategoryHeatingOil, DistanceKm: 40, CarrierID: carrier(8123)},
		{DispatchCenterName: "Oberbuchsiten", Date: june, Category: domain.CategoryHeatingOil, DistanceKm: 60, CarrierID: carrier(9050)},
		{DispatchCenterName: "Oberbuchsiten", Date: june, Category: domain.CategoryLeergut, DistanceKm: 5},
		{DispatchCenterName: "Oberbuchsiten", Date: july, Category: domain.CategoryPellets, DistanceKm: 10, CarrierID: carrier(8123)},
		{DispatchCenterName: "Winterthur", Date: june, Category: domain.CategoryRetoure, DistanceKm: 20, CarrierID: carrier(9900)},
	}

	summaries := aggregator.Summarize(context.Background(), orders)
	require.Len(t, summaries, 3)

	// Sorted by center then period.
	assert.Equal(t, "Oberbuchsiten", summaries[0].DispatchCenter)
	assert.Equal(t, "2025-06", summaries[0].Period)
	assert.Equal(t, "2025-07", summaries[1].Period)
	assert.Equal(t, "Winterthur", summaries[2].DispatchCenter)

	first := summaries[0]
	assert.Equal(t, 3, first.Orders)
	assert.Equal(t, 2, first.ByCategory[domain.CategoryHeatingOil])
	assert.Equal(t, 1, first.ByCategory[domain.CategoryLeergut])
	assert.InDelta(t, 105.0, first.DistanceKm, 0.001)
	assert.Equal(t, 1, first.InternalCarrierOrders)
	assert.Equal(t, 1, first.ExternalCarrierOrders)
	assert.Equal(t, 1, first.UnknownCarrierOrders)
	assert.InDelta(t, 0.5, first.ExternalShare(), 0.001)
}

func TestAggregator_Summarize_Empty(t *testing.T) {
	aggregator := NewAggregator(nil, config.Default().Filtering)
	assert.Empty(t, aggregator.Summarize(context.Background(), nil))
}
