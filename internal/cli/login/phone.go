package login

import (
	"regexp"
	"strings"
)

// mainland China mobile number: 11 digits, 1 then 3-9
var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// checkPhone returns "" for a valid number, otherwise the message to show
func checkPhone(input string) string {
	phone := strings.TrimSpace(input)
	if phone == "" {
		return MsgPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return MsgPhoneInvalid
	}
	return ""
}
