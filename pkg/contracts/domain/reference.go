package domain

// DivisionEntry is one row of the customer-to-division (Sparten) reference
// table. The customer number is kept raw; the workbook stores it sometimes as
// text and sometimes as a number, so both sides are coerced at join time.
type DivisionEntry struct {
	CustomerID string `json:"customer_id" csv:"Kunden-Nr"`
	Division   string `json:"division" csv:"Sparte"`
}

// DispatchCenterEntry is one row of the dispatch-center (Betriebszentralen)
// reference table. Address metadata from the workbook is carried for the
// report output but plays no role in the join.
type DispatchCenterEntry struct {
	OwnerID    string `json:"owner_id" csv:"Nummer.Auftraggeber"`
	CenterName string `json:"center_name" csv:"Betriebszentrale"`
	Address    string `json:"address,omitempty" csv:"Adresse"`
}
