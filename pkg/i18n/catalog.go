package i18n

// The kiosk builds display strings from domain values (order status, payment
// method) by explicit key lookup. Unknown keys fall back to the English
// entry, and a missing English entry returns the key itself so the UI never
// renders an empty label.

type catalog map[string]string

var catalogs = map[Language]catalog{
	"en": {
		"status.pending":           "Order received",
		"status.preparing":         "Being prepared",
		"status.ready":             "Ready for pickup",
		"status.picked_up":         "Picked up",
		"status.cancelled":         "Cancelled",
		"payment.pay_at_pickup":    "Pay at pickup",
		"confirmation.pickup_note": "Show this number at the pickup counter",
	},
	"fr": {
		"status.pending":           "Commande reçue",
		"status.preparing":         "En préparation",
		"status.ready":             "Prête pour le retrait",
		"status.picked_up":         "Retirée",
		"status.cancelled":         "Annulée",
		"payment.pay_at_pickup":    "Paiement au retrait",
		"confirmation.pickup_note": "Présentez ce numéro au comptoir de retrait",
	},
	"ar": {
		"status.pending":        "تم استلام الطلب",
		"status.ready":          "جاهز للاستلام",
		"payment.pay_at_pickup": "الدفع عند الاستلام",
	},
}

// T resolves key in the requested language, falling back to English and
// finally to the key itself.
func T(lang Language, key string) string {
	if entries, ok := catalogs[lang]; ok {
		if value, ok := entries[key]; ok {
			return value
		}
	}
	if entries, ok := catalogs[DefaultLanguage]; ok {
		if value, ok := entries[key]; ok {
			return value
		}
	}
	return key
}
