package monitoring

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Total booking state transitions",
		},
		[]string{"operation", "status"},
	)

	inventoryRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_rejections_total",
			Help: "Reservation attempts rejected for insufficient inventory",
		},
		[]string{"ticket_type_id"},
	)

	checkins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_checkins_total",
			Help: "Ticket validations by result",
		},
		[]string{"result"},
	)

	staleHoldsReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stale_holds_reclaimed_total",
			Help: "Bookings expired by the hold sweep",
		},
	)

	seatsHeld = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seats_held_total",
			Help: "Currently reserved (unsold) seats per event",
		},
		[]string{"event_id"},
	)
)

func BookingOperation(operation, status string) {
	bookingOperations.WithLabelValues(operation, status).Inc()
}

func InventoryRejected(ticketTypeId uint) {
	inventoryRejections.WithLabelValues(strconv.Itoa(int(ticketTypeId))).Inc()
}

func CheckinResult(result string) {
	checkins.WithLabelValues(result).Inc()
}

func StaleHoldsReclaimed(n int) {
	staleHoldsReclaimed.Add(float64(n))
}

func SeatsHeld(eventId uint, held float64) {
	seatsHeld.WithLabelValues(strconv.Itoa(int(eventId))).Set(held)
}
