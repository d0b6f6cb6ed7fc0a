// Package notify delivers plain-text messages to a phone number over WhatsApp.
package notify

import (
	"context"
	"strings"
)

// Notifier sends a text message to a destination phone number
type Notifier interface {
	Send(ctx context.Context, to, message string) error
}

// NormalizePhone keeps only the digits of raw and prefixes countryCode when the
// number does not already start with it.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" || countryCode == "" || strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + digits
}
