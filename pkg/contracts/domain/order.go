package domain

import (
	"strings"
	"time"
)

// Category is the business category assigned to an order by the classifier.
type Category string

const (
	CategoryHeatingOil    Category = "Heizöl"
	CategoryPellets       Category = "Pellets"
	CategoryTankTransport Category = "Tanktransport"
	CategoryPallet        Category = "Palettenlieferung"
	CategoryLeergut       Category = "Leergut"
	CategoryRetoure       Category = "Retoure"
	CategoryBulk          Category = "Schüttgut"
	CategoryUncategorized Category = "Nicht kategorisiert"
)

// AllCategories lists every category the classifier can assign, in report order.
var AllCategories = []Category{
	CategoryHeatingOil,
	CategoryPellets,
	CategoryTankTransport,
	CategoryPallet,
	CategoryLeergut,
	CategoryRetoure,
	CategoryBulk,
	CategoryUncategorized,
}

// Order represents one transport order from the monthly Auftragsanalyse export.
// Identifier fields are kept in their raw string form; type coercion happens
// at join time so that a malformed value degrades to an unmatched record
// instead of failing the load.
type Order struct {
	RecordID            string    `json:"record_id" csv:"Auftrag-Nr"`
	OrderKind           string    `json:"order_kind" csv:"Auftragsart"`
	DeliveryKind        string    `json:"delivery_kind" csv:"Lieferart"`
	SystemTag           string    `json:"system_tag" csv:"System_id.Auftrag"`
	BillingCustomerID   string    `json:"billing_customer_id" csv:"RKdNr"`
	BillingCustomerName string    `json:"billing_customer_name" csv:"RKdName"`
	OwnerID             string    `json:"owner_id" csv:"Nummer.Auftraggeber"`
	CarrierID           *int64    `json:"carrier_id,omitempty" csv:"Nummer.Spedition"`
	DistanceKm          float64   `json:"distance_km" csv:"Distanz verrechnet"`
	Date                time.Time `json:"date" csv:"Auftragsdatum"`

	// Derived fields, populated by the classifier and the reference mapper.
	Category           Category `json:"category,omitempty" csv:"Kategorie"`
	DivisionName       string   `json:"division_name,omitempty" csv:"Sparte"`
	DispatchCenterName string   `json:"dispatch_center_name,omitempty" csv:"Betriebszentrale"`
}

// Period returns the reporting period the order falls into (calendar month).
func (o Order) Period() string {
	if o.Date.IsZero() {
		return ""
	}
	return o.Date.Format("2006-01")
}

// IsSplitLeg reports whether the record id carries the suffix marker used for
// split multi-leg orders (a tilde appended by the source system).
func (o Order) IsSplitLeg() bool {
	return strings.HasSuffix(o.RecordID, "~")
}

// CarrierType partitions the hauler of an order into internal and external
// fleets by the fixed numeric threshold pair on the carrier number.
type CarrierType string

const (
	CarrierInternal CarrierType = "internal"
	CarrierExternal CarrierType = "external"
	CarrierUnknown  CarrierType = "unknown"
)
