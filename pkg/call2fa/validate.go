package call2fa

import "regexp"

// e164Pattern matches international numbers: a plus sign followed by up to
// fifteen digits with no leading zero.
var e164Pattern = regexp.MustCompile(`^\+[1-9][0-9]{1,14}$`)

// ValidatePhoneNumber checks that number is a syntactically valid E.164
// phone number. It is called by every call operation before any network I/O.
func ValidatePhoneNumber(number string) error {
	if number == "" {
		return ErrEmptyPhoneNumber
	}
	if !e164Pattern.MatchString(number) {
		return ErrInvalidPhoneNumber
	}
	return nil
}
