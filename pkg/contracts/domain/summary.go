package domain

// CenterPeriodSummary is one row of the aggregated output: all orders of one
// dispatch center in one reporting period, rolled up. No per-record data
// leaves the aggregation stage.
type CenterPeriodSummary struct {
	DispatchCenter string           `json:"dispatch_center" csv:"Betriebszentrale"`
	Period         string           `json:"period" csv:"Periode"`
	Orders         int              `json:"orders" csv:"Aufträge"`
	ByCategory     map[Category]int `json:"by_category"`
	DistanceKm     float64          `json:"distance_km" csv:"Distanz km"`

	// Carrier split by the configured threshold pair. Orders without a
	// carrier number stay in the unknown bucket.
	InternalCarrierOrders int `json:"internal_carrier_orders" csv:"Eigene Flotte"`
	ExternalCarrierOrders int `json:"external_carrier_orders" csv:"Fremdvergabe"`
	UnknownCarrierOrders  int `json:"unknown_carrier_orders" csv:"Unbekannt"`
}

// ExternalShare returns the fraction of orders hauled by external carriers,
// counting only orders whose carrier could be typed.
func (s CenterPeriodSummary) ExternalShare() float64 {
	typed := s.InternalCarrierOrders + s.ExternalCarrierOrders
	if typed == 0 {
		return 0
	}
	return float64(s.ExternalCarrierOrders) / float64(typed)
}
