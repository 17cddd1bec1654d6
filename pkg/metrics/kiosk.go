package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// KioskMetrics counts the business events of the ordering flow.
type KioskMetrics struct {
	sessionsStarted *prometheus.CounterVec
	sessionsReset   *prometheus.CounterVec
	ordersSubmitted *prometheus.CounterVec
	checkoutFailed  *prometheus.CounterVec
}

// NewKioskMetrics registers the kiosk flow metrics on the provided registerer.
func NewKioskMetrics(reg prometheus.Registerer) *KioskMetrics {
	if reg == nil {
		return &KioskMetrics{}
	}
	sessionsStarted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_sessions_started_total",
		Help: "Kiosk sessions opened, by store.",
	}, []string{"store"})
	sessionsReset := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_sessions_reset_total",
		Help: "Kiosk sessions returned to the home screen, by trigger.",
	}, []string{"store", "trigger"})
	ordersSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_orders_submitted_total",
		Help: "Orders created through checkout, by store.",
	}, []string{"store"})
	checkoutFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_checkout_failed_total",
		Help: "Checkout attempts that did not produce an order, by store.",
	}, []string{"store"})
	reg.MustRegister(sessionsStarted, sessionsReset, ordersSubmitted, checkoutFailed)
	return &KioskMetrics{
		sessionsStarted: sessionsStarted,
		sessionsReset:   sessionsReset,
		ordersSubmitted: ordersSubmitted,
		checkoutFailed:  checkoutFailed,
	}
}

// IncSessionStarted increments the session counter for a store.
func (k *KioskMetrics) IncSessionStarted(storeID string) {
	if k == nil || k.sessionsStarted == nil {
		return
	}
	k.sessionsStarted.WithLabelValues(normalizeLabel(storeID)).Inc()
}

// IncSessionReset increments the reset counter. Trigger is "countdown",
// "manual" or "expired".
func (k *KioskMetrics) IncSessionReset(storeID, trigger string) {
	if k == nil || k.sessionsReset == nil {
		return
	}
	k.sessionsReset.WithLabelValues(normalizeLabel(storeID), normalizeLabel(trigger)).Inc()
}

// IncOrderSubmitted increments the order counter for a store.
func (k *KioskMetrics) IncOrderSubmitted(storeID string) {
	if k == nil || k.ordersSubmitted == nil {
		return
	}
	k.ordersSubmitted.WithLabelValues(normalizeLabel(storeID)).Inc()
}

// IncCheckoutFailed increments the failed checkout counter for a store.
func (k *KioskMetrics) IncCheckoutFailed(storeID string) {
	if k == nil || k.checkoutFailed == nil {
		return
	}
	k.checkoutFailed.WithLabelValues(normalizeLabel(storeID)).Inc()
}
