// Package metrics defines and registers the custom Prometheus metrics of the
// hotel booking API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry when the
// package is initialised. HTTP request metrics come from echoprometheus and
// are configured in the router.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

const namespace = "hotelbook"

// Result label values.
const (
	ResultSuccess     = "success"
	ResultUnavailable = "unavailable"
	ResultNotFound    = "not_found"
	ResultInvalid     = "invalid"
	ResultDuplicate   = "duplicate"
	ResultDenied      = "denied"
	ResultThrottled   = "throttled"
	ResultError       = "error"
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsTotal counts booking attempts.
// Label:
//   - result: success, unavailable (lost the room), not_found, denied, error
var BookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of booking attempts, by result.",
	},
	[]string{"result"},
)

// BookingDuration measures how long the booking transaction takes.
var BookingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "booking_duration_seconds",
		Help:      "Duration of the room booking transaction.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

var HotelsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hotels_created_total",
		Help:      "Total number of hotels created.",
	},
)

var RoomsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_created_total",
		Help:      "Total number of rooms created together with their hotel.",
	},
)

// HotelsDeletedTotal counts hotel deletions; the cascaded rows are counted
// by RoomsDeletedTotal and BookingsDeletedTotal.
var HotelsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hotels_deleted_total",
		Help:      "Total number of hotels deleted.",
	},
)

var RoomsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_deleted_total",
		Help:      "Total number of rooms removed by hotel deletion.",
	},
)

var BookingsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_deleted_total",
		Help:      "Total number of bookings removed by hotel deletion.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: success, invalid, duplicate, error
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: success, denied (bad credentials), throttled, error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// Result maps an operation error to a result label value.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, domain.ErrRoomUnavailable):
		return ResultUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrValidation):
		return ResultInvalid
	case errors.Is(err, domain.ErrDuplicateUsername):
		return ResultDuplicate
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return ResultDenied
	case errors.Is(err, domain.ErrTooManyAttempts):
		return ResultThrottled
	default:
		return ResultError
	}
}
