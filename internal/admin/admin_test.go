package admin

import (
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		code string
		ok   bool
	}{
		{"", false},
		{"abcd", false},
		{"abcde", true},
		{"anything-long-enough", true},
		{"ααααα", true},
	}
	for _, tt := range tests {
		err := Check(tt.code)
		if tt.ok && err != nil {
			t.Errorf("Check(%q) = %v, want nil", tt.code, err)
		}
		if !tt.ok && !errors.Is(err, ErrAccessDenied) {
			t.Errorf("Check(%q) = %v, want ErrAccessDenied", tt.code, err)
		}
	}
}
