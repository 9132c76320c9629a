package exporter

import (
	"strconv"

	"travecoqs/internal/cleaning"
	"travecoqs/internal/pipeline"
	"travecoqs/pkg/contracts/domain"
)

// Artifact file names of one pipeline run.
const (
	FileOrders      = "auftraege_bereinigt.csv"
	FileExcluded    = "auftraege_ausgeschlossen.csv"
	FileDiagnostics = "diagnose.csv"
	FileIssues      = "diagnose_hinweise.csv"
	FileSummary     = "auswertung_bz_periode.csv"
)

// WriteRunArtifacts writes every output of a completed run into the writer's
// base directory.
func (w *CSVWriter) WriteRunArtifacts(out *pipeline.Output) error {
	headers, rows := OrderRows(out.Orders)
	if err := w.WriteSimpleCSV(FileOrders, headers, rows); err != nil {
		return err
	}

	headers, rows = ExcludedRows(out.Excluded)
	if err := w.WriteSimpleCSV(FileExcluded, headers, rows); err != nil {
		return err
	}

	headers, rows = DiagnosticRows(out.Diagnostics)
	if err := w.WriteSimpleCSV(FileDiagnostics, headers, rows); err != nil {
		return err
	}

	headers, rows = IssueRows(out.Diagnostics)
	if err := w.WriteSimpleCSV(FileIssues, headers, rows); err != nil {
		return err
	}

	headers, rows = SummaryRows(out.Summaries)
	return w.WriteSimpleCSV(FileSummary, headers, rows)
}

// OrderRows renders the attributed dataset.
func OrderRows(orders []domain.Order) ([]string, [][]string) {
	headers := []string{
		"Auftrag-Nr", "Auftragsart", "Lieferart", "System", "RKdNr", "RKdName",
		"Auftraggeber", "Spedition", "Distanz km", "Datum", "Periode",
		"Kategorie", "Sparte", "Betriebszentrale",
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		carrier := ""
		if o.CarrierID != nil {
			carrier = strconv.FormatInt(*o.CarrierID, 10)
		}
		date := ""
		if !o.Date.IsZero() {
			date = o.Date.Format("2006-01-02")
		}
		rows = append(rows, []string{
			o.RecordID, o.OrderKind, o.DeliveryKind, o.SystemTag,
			o.BillingCustomerID, o.BillingCustomerName, o.OwnerID, carrier,
			formatFloat(o.DistanceKm), date, o.Period(),
			string(o.Category), o.DivisionName, o.DispatchCenterName,
		})
	}
	return headers, rows
}

// ExcludedRows renders the excluded records with their exclusion reason.
func ExcludedRows(excluded []cleaning.ExcludedRecord) ([]string, [][]string) {
	headers := []string{"Auftrag-Nr", "Auftragsart", "Lieferart", "System", "RKdNr", "Grund"}
	rows := make([][]string, 0, len(excluded))
	for _, e := range excluded {
		rows = append(rows, []string{
			e.Order.RecordID, e.Order.OrderKind, e.Order.DeliveryKind,
			e.Order.SystemTag, e.Order.BillingCustomerID, e.Reason,
		})
	}
	return headers, rows
}

// DiagnosticRows renders the stage-by-stage audit trail.
func DiagnosticRows(d pipeline.Diagnostics) ([]string, [][]string) {
	headers := []string{"Stage", "Aktion", "Anzahl", "Prozent"}
	rows := make([][]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		rows = append(rows, []string{
			e.Stage, e.Action, strconv.Itoa(e.Count),
			strconv.FormatFloat(e.Percent, 'f', 2, 64),
		})
	}
	return headers, rows
}

// IssueRows renders the non-fatal conditions captured during the run.
func IssueRows(d pipeline.Diagnostics) ([]string, [][]string) {
	headers := []string{"Art", "Stage", "Detail"}
	rows := make([][]string, 0, len(d.Issues))
	for _, issue := range d.Issues {
		rows = append(rows, []string{string(issue.Kind), issue.Stage, issue.Detail})
	}
	return headers, rows
}

// SummaryRows renders the aggregate table, one row per (center, period),
// with the per-category counts in fixed category order.
func SummaryRows(summaries []domain.CenterPeriodSummary) ([]string, [][]string) {
	headers := []string{"Betriebszentrale", "Periode", "Aufträge"}
	for _, category := range domain.AllCategories {
		headers = append(headers, string(category))
	}
	headers = append(headers, "Distanz km", "Eigene Flotte", "Fremdvergabe", "Unbekannt")

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		row := []string{s.DispatchCenter, s.Period, strconv.Itoa(s.Orders)}
		for _, category := range domain.AllCategories {
			row = append(row, strconv.Itoa(s.ByCategory[category]))
		}
		row = append(row,
			formatFloat(s.DistanceKm),
			strconv.Itoa(s.InternalCarrierOrders),
			strconv.Itoa(s.ExternalCarrierOrders),
			strconv.Itoa(s.UnknownCarrierOrders),
		)
		rows = append(rows, row)
	}
	return headers, rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
