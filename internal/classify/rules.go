// Package classify assigns every surviving order exactly one business
// category through a priority-ordered decision table. The table is data, not
// control flow: rules are inspectable, reorderable and testable on their own.
package classify

import "travecoqs/pkg/contracts/domain"

// Rule is one row of the decision table. Empty match fields are wildcards;
// non-empty fields must all equal the order's value. The first matching rule
// in table order wins.
type Rule struct {
	Name         string
	OrderKind    string
	DeliveryKind string
	SystemTag    string
	Category     domain.Category
}

// Matches reports whether the rule applies to the order.
func (r Rule) Matches(o domain.Order) bool {
	if r.OrderKind != "" && r.OrderKind != o.OrderKind {
		return false
	}
	if r.DeliveryKind != "" && r.DeliveryKind != o.DeliveryKind {
		return false
	}
	if r.SystemTag != "" && r.SystemTag != o.SystemTag {
		return false
	}
	return true
}

// DefaultRules is the production decision table. Order matters: Leergut and
// Retoure are keyed on the delivery kind and must be recognized before the
// coarser order-kind rules, otherwise an empty-container run on a tank truck
// would count as a tank transport.
var DefaultRules = []Rule{
	{Name: "leergut", DeliveryKind: "Leergut", Category: domain.CategoryLeergut},
	{Name: "retoure_lieferart", DeliveryKind: "Retourenabholung", Category: domain.CategoryRetoure},
	{Name: "retoure_auftragsart", OrderKind: "Retoure", Category: domain.CategoryRetoure},
	{Name: "heizoel_bt", OrderKind: "Heizöl", SystemTag: "B&T", Category: domain.CategoryHeatingOil},
	{Name: "heizoel", OrderKind: "Heizöl", Category: domain.CategoryHeatingOil},
	{Name: "pellets", OrderKind: "Pellets", Category: domain.CategoryPellets},
	{Name: "tanktransport", OrderKind: "Tanktransport", Category: domain.CategoryTankTransport},
	{Name: "palette", DeliveryKind: "Palettenlieferung", Category: domain.CategoryPallet},
	{Name: "schuettgut", OrderKind: "Schüttgut", Category: domain.CategoryBulk},
}
