package topics

import (
	"testing"
)

func TestAll_Count(t *testing.T) {
	if got := len(All()); got != 8 {
		t.Errorf("got %d topics, want 8", got)
	}
}

func TestByForm(t *testing.T) {
	tests := []struct {
		form Form
		want int
	}{
		{Form4, 4},
		{Form5, 4},
		{Form("form6"), 0},
	}
	for _, tt := range tests {
		if got := len(ByForm(tt.form)); got != tt.want {
			t.Errorf("ByForm(%s) = %d topics, want %d", tt.form, got, tt.want)
		}
	}
}

func TestGet_Exists(t *testing.T) {
	tp, err := Get("form5-integration")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.Name != "Integration" {
		t.Errorf("got name %q, want %q", tp.Name, "Integration")
	}
	if tp.Form != Form5 {
		t.Errorf("got form %q, want %q", tp.Form, Form5)
	}
}

func TestGet_NotFound(t *testing.T) {
	if _, err := Get("calculus"); err == nil {
		t.Fatal("expected error for unknown topic, got nil")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	if Name(all[0].ID) == "changed" {
		t.Error("mutating All() result leaked into catalog")
	}
}

func TestFormOf(t *testing.T) {
	if got := FormOf("form4-functions"); got != Form4 {
		t.Errorf("FormOf(form4-functions) = %q, want form4", got)
	}
	if got := FormOf("form5-differentiation"); got != Form5 {
		t.Errorf("FormOf by prefix = %q, want form5", got)
	}
	if got := FormOf("misc"); got != "" {
		t.Errorf("FormOf(misc) = %q, want empty", got)
	}
}
