package refmap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"travecoqs/internal/config"
	"travecoqs/pkg/contracts/domain"
)

// Reference table names used in duplicate reports.
const (
	TableDivisions = "divisions"
	TableCenters   = "dispatch_centers"
)

// DuplicateKey reports a reference-table key that appeared more than once.
// The first-encountered row wins deterministically; the rest are discarded
// and surfaced here.
type DuplicateKey struct {
	Table     string
	Key       int64
	Kept      string
	Discarded string
}

// SkippedEntry reports a reference row whose key could not be coerced.
type SkippedEntry struct {
	Table string
	Raw   string
}

// DivisionStats is the audit summary of the customer-division join.
// Matched + Generic + Internal always equals the record count.
type DivisionStats struct {
	Matched  int
	Generic  int // generic "no division" sentinel; should trend toward zero
	Internal int // own-company orders, legitimate and counted apart
}

// CenterStats is the audit summary of the dispatch-center join.
type CenterStats struct {
	Matched         int
	Unmatched       int
	Collapsed       int // orders rerouted through the relocation equivalence
	DistinctCenters int // distinct real center names seen in the output
}

// Result is the fully-attributed dataset plus the audit trail of both joins.
type Result struct {
	Orders     []domain.Order
	Division   DivisionStats
	Center     CenterStats
	Duplicates []DuplicateKey
	Skipped    []SkippedEntry
}

// Mapper performs the two independent left-joins. Building it validates the
// configuration against the loaded reference tables; applying it can only
// degrade records to sentinels, never fail.
type Mapper struct {
	cfg       config.MappingConfig
	divisions map[int64]string
	centers   map[int64]string

	duplicates []DuplicateKey
	skipped    []SkippedEntry
	logger     *slog.Logger
}

// NewMapper indexes both reference tables by canonical key and validates the
// relocation equivalences against the center table. An equivalence whose
// canonical identifier is missing from the table is a fatal configuration
// error: every order carrying the retired key would silently fall into the
// sentinel bucket.
func NewMapper(logger *slog.Logger, cfg config.MappingConfig,
	divisions []domain.DivisionEntry, centers []domain.DispatchCenterEntry) (*Mapper, error) {

	if logger == nil {
		logger = slog.Default()
	}
	m := &Mapper{
		cfg:       cfg,
		divisions: make(map[int64]string, len(divisions)),
		centers:   make(map[int64]string, len(centers)),
		logger:    logger,
	}

	for _, entry := range divisions {
		key, ok := CoerceKey(entry.CustomerID)
		if !ok {
			m.skipped = append(m.skipped, SkippedEntry{Table: TableDivisions, Raw: entry.CustomerID})
			continue
		}
		if kept, exists := m.divisions[key]; exists {
			m.duplicates = append(m.duplicates, DuplicateKey{
				Table: TableDivisions, Key: key, Kept: kept, Discarded: entry.Division,
			})
			continue
		}
		m.divisions[key] = entry.Division
	}

	for _, entry := range centers {
		key, ok := CoerceKey(entry.OwnerID)
		if !ok {
			m.skipped = append(m.skipped, SkippedEntry{Table: TableCenters, Raw: entry.OwnerID})
			continue
		}
		if kept, exists := m.centers[key]; exists {
			m.duplicates = append(m.duplicates, DuplicateKey{
				Table: TableCenters, Key: key, Kept: kept, Discarded: entry.CenterName,
			})
			continue
		}
		m.centers[key] = entry.CenterName
	}

	for old, canonical := range cfg.CenterEquivalences {
		if _, ok := m.centers[canonical]; !ok {
			return nil, &config.ConfigurationError{
				Field: "Mapping.CenterEquivalences",
				Reason: fmt.Sprintf("canonical center %d (for retired %d) not present in dispatch center map",
					canonical, old),
			}
		}
	}

	for _, dup := range m.duplicates {
		logger.Warn("ambiguous reference key, first occurrence kept",
			slog.String("table", dup.Table),
			slog.Int64("key", dup.Key),
			slog.String("kept", dup.Kept),
			slog.String("discarded", dup.Discarded))
	}
	for _, skip := range m.skipped {
		logger.Warn("unresolved reference key type, row skipped",
			slog.String("table", skip.Table),
			slog.String("raw", skip.Raw))
	}

	return m, nil
}

// Apply attributes every order with a division name and a dispatch center
// name, sentinel or real. The input slice is not modified.
func (m *Mapper) Apply(ctx context.Context, orders []domain.Order) Result {
	result := Result{
		Orders:     make([]domain.Order, 0, len(orders)),
		Duplicates: m.duplicates,
		Skipped:    m.skipped,
	}
	centersSeen := make(map[string]struct{})

	for _, order := range orders {
		order.DivisionName = m.mapDivision(order, &result.Division)
		order.DispatchCenterName = m.mapCenter(order, &result.Center)
		if order.DispatchCenterName != m.cfg.CenterSentinel {
			centersSeen[order.DispatchCenterName] = struct{}{}
		}
		result.Orders = append(result.Orders, order)
	}
	result.Center.DistinctCenters = len(centersSeen)

	m.logger.InfoContext(ctx, "reference mapping complete",
		slog.Int("orders", len(orders)),
		slog.Int("division_matched", result.Division.Matched),
		slog.Int("division_generic_sentinel", result.Division.Generic),
		slog.Int("division_internal_sentinel", result.Division.Internal),
		slog.Int("center_matched", result.Center.Matched),
		slog.Int("center_unmatched", result.Center.Unmatched),
		slog.Int("distinct_centers", result.Center.DistinctCenters))

	return result
}

// mapDivision resolves the paying customer to a division. Unmatched orders
// split into two sentinels: own-company orders are business as usual, while
// the generic sentinel is a data-quality signal meant to trend toward zero.
func (m *Mapper) mapDivision(order domain.Order, stats *DivisionStats) string {
	if key, ok := CoerceKey(order.BillingCustomerID); ok {
		if division, found := m.divisions[key]; found {
			stats.Matched++
			return division
		}
	}
	if m.isOwnCompany(order.BillingCustomerName) {
		stats.Internal++
		return m.cfg.InternalDivisionSentinel
	}
	stats.Generic++
	return m.cfg.GenericDivisionSentinel
}

// mapCenter resolves the owning unit to a dispatch center, collapsing the
// retired relocation key to its canonical successor before lookup. The
// reference table itself stays untouched.
func (m *Mapper) mapCenter(order domain.Order, stats *CenterStats) string {
	key, ok := CoerceKey(order.OwnerID)
	if ok {
		if canonical, relocated := m.cfg.CenterEquivalences[key]; relocated {
			key = canonical
			stats.Collapsed++
		}
		if center, found := m.centers[key]; found {
			stats.Matched++
			return center
		}
	}
	stats.Unmatched++
	return m.cfg.CenterSentinel
}

// isOwnCompany reports whether the billing customer name names the company
// itself (self-billed internal orders).
func (m *Mapper) isOwnCompany(name string) bool {
	if m.cfg.CompanyNameMarker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(m.cfg.CompanyNameMarker))
}
