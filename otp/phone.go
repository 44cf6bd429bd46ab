package otp

import "strings"

// NormalizePhone converts Iranian mobile numbers to E.164 form:
// 0912..., 98912... and 912... all become +98912...
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "98"):
		return "+" + digits
	case strings.HasPrefix(digits, "0"):
		return "+98" + digits[1:]
	case len(digits) == 10:
		return "+98" + digits
	default:
		return "+" + digits
	}
}
