package pipeline

import (
	"strings"
	"testing"
)

func TestCheckQuoteBalance_EvenCountsPass(t *testing.T) {
	cases := []string{
		``,
		`no quotes at all`,
		`"balanced"`,
		`say "hello" and "goodbye"`,
		`""""`,
	}

	for _, text := range cases {
		if err := CheckQuoteBalance(text); err != nil {
			t.Errorf("expected pass for %q, got %v", text, err)
		}
	}
}

func TestCheckQuoteBalance_OddCountsFail(t *testing.T) {
	cases := []string{
		`"`,
		`truncated "output`,
		`one " two " three "`,
	}

	for _, text := range cases {
		err := CheckQuoteBalance(text)
		if err == nil {
			t.Errorf("expected failure for %q", text)
			continue
		}
		if !strings.Contains(err.Error(), text) {
			t.Errorf("diagnostic must name the offending text, got %q", err.Error())
		}
	}
}

func TestCheckQuoteBalance_IsValidationError(t *testing.T) {
	err := CheckQuoteBalance(`odd"`)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Rule != "quote_balance" {
		t.Errorf("unexpected rule %q", ve.Rule)
	}
}
