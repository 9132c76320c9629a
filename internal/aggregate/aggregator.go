// Package aggregate rolls the fully-attributed dataset up to one row per
// (dispatch center, reporting period). No per-record granularity leaves this
// stage.
package aggregate

import (
	"context"
	"log/slog"
	"sort"

	"travecoqs/internal/config"
	"travecoqs/pkg/contracts/domain"
)

// Aggregator groups orders and computes the per-group statistics.
type Aggregator struct {
	internalMax int64
	externalMin int64
	logger      *slog.Logger
}

// NewAggregator creates an aggregator with the configured carrier bounds.
// The bounds are validated non-overlapping at config load.
func NewAggregator(logger *slog.Logger, cfg config.FilteringConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		internalMax: cfg.InternalCarrierMax,
		externalMin: cfg.ExternalCarrierMin,
		logger:      logger,
	}
}

// CarrierType partitions a carrier number by the inclusive boundary pair.
// An absent number is unknown, never reclassified into either fleet; so is a
// number falling into the unassigned gap between the bounds.
func (a *Aggregator) CarrierType(id *int64) domain.CarrierType {
	switch {
	case id == nil:
		return domain.CarrierUnknown
	case *id <= a.internalMax:
		return domain.CarrierInternal
	case *id >= a.externalMin:
		return domain.CarrierExternal
	default:
		return domain.CarrierUnknown
	}
}

type groupKey struct {
	center string
	period string
}

// Summarize produces one summary row per (dispatch center, period), sorted
// by center then period for deterministic output.
func (a *Aggregator) Summarize(ctx context.Context, orders []domain.Order) []domain.CenterPeriodSummary {
	groups := make(map[groupKey]*domain.CenterPeriodSummary)

	for _, order := range orders {
		key := groupKey{center: order.DispatchCenterName, period: order.Period()}
		summary, ok := groups[key]
		if !ok {
			summary = &domain.CenterPeriodSummary{
				DispatchCenter: key.center,
				Period:         key.period,
				ByCategory:     make(map[domain.Category]int),
			}
			groups[key] = summary
		}

		summary.Orders++
		summary.ByCategory[order.Category]++
		summary.DistanceKm += order.DistanceKm

		switch a.CarrierType(order.CarrierID) {
		case domain.CarrierInternal:
			summary.InternalCarrierOrders++
		case domain.CarrierExternal:
			summary.ExternalCarrierOrders++
		default:
			summary.UnknownCarrierOrders++
		}
	}

	summaries := make([]domain.CenterPeriodSummary, 0, len(groups))
	for _, summary := range groups {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].DispatchCenter != summaries[j].DispatchCenter {
			return summaries[i].DispatchCenter < summaries[j].DispatchCenter
		}
		return summaries[i].Period < summaries[j].Period
	})

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("orders", len(orders)),
		slog.Int("groups", len(summaries)))

	return summaries
}
