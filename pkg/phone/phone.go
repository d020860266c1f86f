// Package phone canonicalises Indian mobile numbers into +91XXXXXXXXXX.
package phone

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	countryCode = "91"
	prefix      = "+" + countryCode
	nationalLen = 10
)

var canonicalRe = regexp.MustCompile(`^\+91[6-9]\d{9}$`)

// Normalize reduces arbitrary user input to the canonical +91 form.
// The boolean is false when the input cannot be a valid mobile number.
func Normalize(input string) (string, bool) {
	digits := digitsOnly(input)

	digits = strings.TrimPrefix(digits, "0")

	if strings.HasPrefix(digits, countryCode) && len(digits) > nationalLen {
		digits = digits[len(countryCode):]
	}

	if len(digits) > nationalLen {
		digits = digits[len(digits)-nationalLen:]
	}

	if len(digits) != nationalLen {
		return "", false
	}

	switch digits[0] {
	case '6', '7', '8', '9':
	default:
		return "", false
	}

	return prefix + digits, true
}

// IsCanonical reports whether s is already in the stored +91 format.
func IsCanonical(s string) bool {
	return canonicalRe.MatchString(s)
}

// Display groups a stored number as "+91 XXXXX XXXXX". Anything that
// does not carry ten trailing digits is returned unchanged.
func Display(p string) string {
	if p == "" {
		return ""
	}
	digits := digitsOnly(p)
	if len(digits) < nationalLen {
		return p
	}
	digits = digits[len(digits)-nationalLen:]
	return prefix + " " + digits[:5] + " " + digits[5:]
}

// WhatsAppLink builds a wa.me deep link that opens a chat with the
// number and pre-fills message.
func WhatsAppLink(p, message string) (string, bool) {
	canonical, ok := Normalize(p)
	if !ok {
		return "", false
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + strings.TrimPrefix(canonical, "+") + "?text=" + text, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
