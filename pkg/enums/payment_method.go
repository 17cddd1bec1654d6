package enums

import "fmt"

// PaymentMethod describes how a kiosk order is settled. The kiosk flow only
// models pay-at-pickup; no in-kiosk payment capture occurs.
type PaymentMethod string

const (
	PaymentMethodPayAtPickup PaymentMethod = "pay_at_pickup"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPayAtPickup,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
