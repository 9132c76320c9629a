package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"travecoqs/pkg/contracts/domain"
)

// Column names of the order export, after label repair. The raw export often
// carries these with a stray trailing period; stages only ever see the
// repaired form.
const (
	ColRecordID            = "Auftrag-Nr"
	ColOrderKind           = "Auftragsart"
	ColDeliveryKind        = "Lieferart"
	ColSystemTag           = "System_id.Auftrag"
	ColBillingCustomerID   = "RKdNr"
	ColBillingCustomerName = "RKdName"
	ColOwnerID             = "Nummer.Auftraggeber"
	ColCarrierID           = "Nummer.Spedition"
	ColDistance            = "Distanz verrechnet"
	ColDate                = "Auftragsdatum"
)

// Column names of the two reference workbooks, after label repair.
const (
	ColCustomerID = "Kunden-Nr"
	ColDivision   = "Sparte"
	ColCenterName = "Betriebszentrale"
	ColAddress    = "Adresse"
)

// requiredOrderColumns must all resolve for the stages to have anything to
// work with. "Distanz gefahren" also exists in the export but is the wrong
// leg for costing and is deliberately not read.
var requiredOrderColumns = []string{
	ColRecordID,
	ColOrderKind,
	ColDeliveryKind,
	ColSystemTag,
	ColBillingCustomerID,
	ColOwnerID,
	ColDate,
}

// DecodeOrders repairs the table's labels, validates the schema and converts
// every row into an Order. It returns the normalization diagnostics so the
// report can show how many labels needed repair.
func DecodeOrders(t Table) ([]domain.Order, Normalization, error) {
	schema, err := NewSchema(t)
	if err != nil {
		return nil, Normalization{}, err
	}

	for _, col := range requiredOrderColumns {
		if _, err := schema.Require(col); err != nil {
			return nil, Normalization{}, fmt.Errorf("order dataset: %w", err)
		}
	}

	orders := make([]domain.Order, 0, len(t.Rows))
	for i, row := range t.Rows {
		order := domain.Order{
			RecordID:            strings.TrimSpace(schema.Value(row, ColRecordID)),
			OrderKind:           strings.TrimSpace(schema.Value(row, ColOrderKind)),
			DeliveryKind:        strings.TrimSpace(schema.Value(row, ColDeliveryKind)),
			SystemTag:           strings.TrimSpace(schema.Value(row, ColSystemTag)),
			BillingCustomerID:   schema.Value(row, ColBillingCustomerID),
			BillingCustomerName: strings.TrimSpace(schema.Value(row, ColBillingCustomerName)),
			OwnerID:             schema.Value(row, ColOwnerID),
		}

		if order.RecordID == "" {
			// Trailing blank rows are a workbook artifact, not data.
			continue
		}

		order.CarrierID = parseOptionalInt(schema.Value(row, ColCarrierID))
		order.DistanceKm = parseNumber(schema.Value(row, ColDistance))

		if raw := schema.Value(row, ColDate); strings.TrimSpace(raw) != "" {
			date, err := ParseDate(raw)
			if err != nil {
				return nil, Normalization{}, fmt.Errorf("order dataset: row %d (record %q): %w",
					i+1, order.RecordID, err)
			}
			order.Date = date
		}

		orders = append(orders, order)
	}

	return orders, schema.Normalization(), nil
}

// DecodeDivisions converts the Sparten reference table.
func DecodeDivisions(t Table) ([]domain.DivisionEntry, Normalization, error) {
	schema, err := NewSchema(t)
	if err != nil {
		return nil, Normalization{}, err
	}
	for _, col := range []string{ColCustomerID, ColDivision} {
		if _, err := schema.Require(col); err != nil {
			return nil, Normalization{}, fmt.Errorf("division map: %w", err)
		}
	}

	entries := make([]domain.DivisionEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		entry := domain.DivisionEntry{
			CustomerID: schema.Value(row, ColCustomerID),
			Division:   strings.TrimSpace(schema.Value(row, ColDivision)),
		}
		if strings.TrimSpace(entry.CustomerID) == "" && entry.Division == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, schema.Normalization(), nil
}

// DecodeDispatchCenters converts the Betriebszentralen reference table.
func DecodeDispatchCenters(t Table) ([]domain.DispatchCenterEntry, Normalization, error) {
	schema, err := NewSchema(t)
	if err != nil {
		return nil, Normalization{}, err
	}
	for _, col := range []string{ColOwnerID, ColCenterName} {
		if _, err := schema.Require(col); err != nil {
			return nil, Normalization{}, fmt.Errorf("dispatch center map: %w", err)
		}
	}

	entries := make([]domain.DispatchCenterEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		entry := domain.DispatchCenterEntry{
			OwnerID:    schema.Value(row, ColOwnerID),
			CenterName: strings.TrimSpace(schema.Value(row, ColCenterName)),
			Address:    strings.TrimSpace(schema.Value(row, ColAddress)),
		}
		if strings.TrimSpace(entry.OwnerID) == "" && entry.CenterName == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, schema.Normalization(), nil
}

// parseOptionalInt parses a numeric cell into an int64, treating anything
// unparseable as absent. Excel renders integer ids as "8123.0" after a float
// round-trip; the fractional suffix is stripped first.
func parseOptionalInt(cell string) *int64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, ".0")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == float64(int64(f)) {
			v = int64(f)
		} else {
			return nil
		}
	}
	return &v
}

// parseNumber parses a numeric cell, stripping the thousands separators the
// export uses (comma, and the Swiss apostrophe).
func parseNumber(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "'", "")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
