package utils

import "strings"

// NormalizePhone normalizes Portuguese phone numbers to country-code form
// (351XXXXXXXXX). Accepts +351, 00351, 351 and bare 9xx formats.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "00351") {
		digits = digits[2:]
	}

	if len(digits) == 9 && strings.HasPrefix(digits, "9") {
		return "351" + digits
	}

	if strings.HasPrefix(digits, "351") && len(digits) == 12 {
		return digits
	}

	// Fallback: pass through and let validation at a higher level reject it.
	return digits
}

// FormatPhoneForSms renders a normalized phone in international E.164 form
// for the SMS gateway.
func FormatPhoneForSms(phone string) string {
	return "+" + NormalizePhone(phone)
}
