package pipeline

import "strings"

// CheckQuoteBalance rejects text with an odd number of double-quote
// characters. It exists to catch truncated or malformed generator output
// before a command preview is shown; it is a narrow mitigation, not an
// injection defense, and a pass implies nothing about adversarial input.
func CheckQuoteBalance(text string) error {
	if strings.Count(text, `"`)%2 != 0 {
		return &ValidationError{
			Rule:   "quote_balance",
			Detail: "unbalanced double quotes in: " + text,
		}
	}
	return nil
}
