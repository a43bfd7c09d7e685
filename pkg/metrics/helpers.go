package metrics

// Helper increments used by the business layers through narrow interfaces,
// so services do not depend on prometheus types directly.

// IncReservationCreated counts a created reservation by initial status.
func (m *Metrics) IncReservationCreated(status string) {
	m.ReservationsCreatedTotal.WithLabelValues(status).Inc()
}

// IncSlotConflict counts a rejected booking attempt ("staff" or "resource").
func (m *Metrics) IncSlotConflict(kind string) {
	m.SlotConflictsTotal.WithLabelValues(kind).Inc()
}

// IncPayment counts a payment event by provider and outcome.
func (m *Metrics) IncPayment(provider, status string) {
	m.PaymentsTotal.WithLabelValues(provider, status).Inc()
}

// IncSwept counts an expiration-sweep outcome ("cancelled" or "error").
func (m *Metrics) IncSwept(result string) {
	m.ReservationsSweptTotal.WithLabelValues(result).Inc()
}
