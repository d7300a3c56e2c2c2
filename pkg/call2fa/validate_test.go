package call2fa

import (
	"errors"
	"testing"
)

func TestValidatePhoneNumber(t *testing.T) {
	cases := []struct {
		name   string
		number string
		want   error
	}{
		{name: "valid ukrainian number", number: "+380631010121", want: nil},
		{name: "valid short number", number: "+1212", want: nil},
		{name: "empty", number: "", want: ErrEmptyPhoneNumber},
		{name: "missing plus", number: "380631010121", want: ErrInvalidPhoneNumber},
		{name: "leading zero", number: "+0631010121", want: ErrInvalidPhoneNumber},
		{name: "letters", number: "+38063abc", want: ErrInvalidPhoneNumber},
		{name: "too long", number: "+1234567890123456", want: ErrInvalidPhoneNumber},
		{name: "spaces", number: "+38 063 101 01 21", want: ErrInvalidPhoneNumber},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidatePhoneNumber(tc.number); !errors.Is(got, tc.want) {
				t.Fatalf("ValidatePhoneNumber(%q) = %v, want %v", tc.number, got, tc.want)
			}
		})
	}
}
