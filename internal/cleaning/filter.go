package cleaning

import (
	"context"
	"log/slog"

	"travecoqs/internal/config"
	"travecoqs/pkg/contracts/domain"
)

// Predicate names used in the diagnostic report.
const (
	PredicateWarehouseOrder = "warehouse_order"
	PredicateInternalPickup = "internal_pickup"
	PredicatePolicyCategory = "policy_excluded_category"
)

// Predicate is one named exclusion rule. Match returns true for records that
// must leave the population.
type Predicate struct {
	Name  string
	Match func(domain.Order) bool
}

// ExcludedRecord keeps an excluded order together with the predicate that
// removed it, so exclusions stay reviewable after the run.
type ExcludedRecord struct {
	Order  domain.Order
	Reason string
}

// PredicateStat is the per-predicate audit entry. Percent is relative to the
// record count the predicate saw, which is the spreadsheet-filter view a
// stakeholder cross-checks against.
type PredicateStat struct {
	Name     string
	Seen     int
	Excluded int
	Percent  float64
}

// Result is the outcome of one filter application: the surviving dataset,
// every excluded record with its reason, and the per-predicate stats in
// application order. Kept plus Excluded always partition the input.
type Result struct {
	Kept     []domain.Order
	Excluded []ExcludedRecord
	Stats    []PredicateStat
}

// Filter applies an ordered list of predicates. Each predicate only sees the
// records that survived the ones before it.
type Filter struct {
	predicates []Predicate
	logger     *slog.Logger
}

// NewFilter creates a filter over the given predicates in order.
func NewFilter(logger *slog.Logger, predicates ...Predicate) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{predicates: predicates, logger: logger}
}

// Apply partitions the dataset. The input slice is not modified.
func (f *Filter) Apply(ctx context.Context, orders []domain.Order) Result {
	result := Result{
		Kept:  append([]domain.Order(nil), orders...),
		Stats: make([]PredicateStat, 0, len(f.predicates)),
	}

	for _, p := range f.predicates {
		seen := len(result.Kept)
		kept := make([]domain.Order, 0, seen)
		excluded := 0

		for _, order := range result.Kept {
			if p.Match(order) {
				result.Excluded = append(result.Excluded, ExcludedRecord{Order: order, Reason: p.Name})
				excluded++
			} else {
				kept = append(kept, order)
			}
		}

		stat := PredicateStat{Name: p.Name, Seen: seen, Excluded: excluded}
		if seen > 0 {
			stat.Percent = float64(excluded) / float64(seen) * 100
		}
		result.Stats = append(result.Stats, stat)
		result.Kept = kept

		f.logger.InfoContext(ctx, "exclusion predicate applied",
			slog.String("predicate", p.Name),
			slog.Int("seen", seen),
			slog.Int("excluded", excluded),
			slog.Int("remaining", len(kept)))
	}

	return result
}

// WarehouseOrderPredicate excludes pure warehouse orders: goods moved inside
// the yard, never on the road.
func WarehouseOrderPredicate(cfg config.FilteringConfig) Predicate {
	return Predicate{
		Name: PredicateWarehouseOrder,
		Match: func(o domain.Order) bool {
			return o.DeliveryKind == cfg.WarehouseDeliveryKind
		},
	}
}

// InternalPickupPredicate excludes pickups issued by the internal B&T
// sub-system that have no paying customer. Blankness must go through
// IsEffectivelyBlank: the export writes a bare hyphen for most of these, and
// a null-only check matched zero of several thousand real occurrences.
func InternalPickupPredicate(cfg config.FilteringConfig) Predicate {
	return Predicate{
		Name: PredicateInternalPickup,
		Match: func(o domain.Order) bool {
			return o.SystemTag == cfg.InternalPickupSystemTag && IsEffectivelyBlank(o.BillingCustomerID)
		},
	}
}

// PolicyCategoryPredicate excludes whole categories after classification,
// per the contract-weight policy. Uncategorized records are pulled in only
// when configured.
func PolicyCategoryPredicate(cfg config.Config) Predicate {
	excluded := domain.Category(cfg.Classify.PolicyExcludedCategory)
	return Predicate{
		Name: PredicatePolicyCategory,
		Match: func(o domain.Order) bool {
			if o.Category == excluded {
				return true
			}
			return cfg.Filtering.ExcludeUncategorized && o.Category == domain.CategoryUncategorized
		},
	}
}
