// Package admin guards the question management screens.
package admin

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MinCodeLength is the shortest access code accepted.
const MinCodeLength = 5

// ErrAccessDenied is returned when an access code is rejected.
var ErrAccessDenied = errors.New("access denied")

// Check validates an admin access code.
//
// TODO: compare against a configured secret instead of only checking length.
func Check(code string) error {
	if utf8.RuneCountInString(code) < MinCodeLength {
		return fmt.Errorf("%w: code must be at least %d characters", ErrAccessDenied, MinCodeLength)
	}
	return nil
}
