package admin

import (
	"fmt"
	"regexp"
	"strings"
)

// Ugandan mobile numbers: 7X followed by seven digits.
var phoneRegex = regexp.MustCompile(`^(7\d)(\d{7})$`)

// NormalizePhone accepts +2567..., 2567..., 07... or 7... and returns the
// 256XXXXXXXXX form admin accounts are keyed by.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")

	var localPart string
	switch {
	case strings.HasPrefix(phone, "256"):
		localPart = phone[3:]
	case strings.HasPrefix(phone, "0"):
		localPart = phone[1:]
	default:
		localPart = phone
	}

	if !phoneRegex.MatchString(localPart) {
		return "", fmt.Errorf("invalid phone number format: %s", phone)
	}
	return "256" + localPart, nil
}
