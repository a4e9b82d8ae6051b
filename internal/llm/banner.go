package llm

import "strings"

// Generation backends occasionally prepend a one-line diagnostic notice
// (auth reminders, quota warnings) to otherwise valid output. The set of
// known prefixes is small and fixed; anything else is treated as content.
var bannerPrefixes = []string{
	"warning:",
	"notice:",
	"[notice]",
	"[warn]",
	"authenticated as",
	"! first run",
	"your token will expire",
	"quota notice:",
}

// StripDiagnosticBanner removes a single leading diagnostic line from raw
// output. Only the first line is ever considered, and only exact known
// prefixes match; a pass here says nothing about the rest of the text.
func StripDiagnosticBanner(raw string) string {
	text := strings.TrimLeft(raw, "\n")
	firstLine, rest, found := strings.Cut(text, "\n")

	lower := strings.ToLower(strings.TrimSpace(firstLine))
	for _, prefix := range bannerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			if !found {
				return ""
			}
			return strings.TrimLeft(rest, "\n")
		}
	}

	return raw
}
