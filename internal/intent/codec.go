package intent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/issuepilot/pkg/models"
)

// The generation service speaks a line-oriented KEY: VALUE protocol. That
// stringly format stays confined to this package: callers only ever see a
// typed Intent.

// SentinelNone marks a field the service explicitly did not specify,
// distinct from an empty value.
const SentinelNone = "NONE"

const (
	keyOperation    = "OPERATION"
	keyTarget       = "TARGET"
	keyContent      = "CONTENT"
	keyConfidence   = "CONFIDENCE"
	keyLabels       = "LABELS"
	keyAssignees    = "ASSIGNEES"
	keyMilestone    = "MILESTONE"
	keyPriority     = "PRIORITY"
	keyTone         = "TONE"
	keyInstructions = "INSTRUCTIONS"
)

// fieldValue returns the value of the first line matching key, or ok=false
// when no line carries the key. A SentinelNone value maps to absent.
func fieldValue(lines []string, key string) (string, bool) {
	prefix := key + ":"
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < len(prefix) {
			continue
		}
		if !strings.EqualFold(trimmed[:len(prefix)], prefix) {
			continue
		}
		value := strings.TrimSpace(trimmed[len(prefix):])
		if strings.EqualFold(value, SentinelNone) {
			return "", false
		}
		return value, true
	}
	return "", false
}

func listValue(lines []string, key string) []string {
	raw, ok := fieldValue(lines, key)
	if !ok || raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

// ParseIntent parses KEY: VALUE output into an Intent. The operation is
// carried verbatim (lowercased) even when outside the known enum; the
// dispatcher enforces membership.
func ParseIntent(output string) models.Intent {
	lines := strings.Split(output, "\n")

	in := models.Intent{}

	if op, ok := fieldValue(lines, keyOperation); ok {
		in.Operation = models.Operation(strings.ToLower(op))
	} else {
		in.Operation = models.OpUnknown
	}

	if target, ok := fieldValue(lines, keyTarget); ok {
		in.TargetID = parseTarget(target)
	}

	if content, ok := fieldValue(lines, keyContent); ok {
		in.Content = content
	}

	if conf, ok := fieldValue(lines, keyConfidence); ok {
		switch strings.ToLower(conf) {
		case "high":
			in.Confidence = models.ConfidenceHigh
		case "medium":
			in.Confidence = models.ConfidenceMedium
		default:
			in.Confidence = models.ConfidenceLow
		}
	} else {
		in.Confidence = models.ConfidenceLow
	}

	in.Labels = listValue(lines, keyLabels)
	in.Assignees = listValue(lines, keyAssignees)
	in.Milestone, _ = fieldValue(lines, keyMilestone)
	in.Priority, _ = fieldValue(lines, keyPriority)
	in.Tone, _ = fieldValue(lines, keyTone)
	in.Instructions, _ = fieldValue(lines, keyInstructions)

	return in
}

func parseTarget(raw string) int {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// SerializeIntent renders an Intent back into the wire format. Absent
// fields serialize as the NONE sentinel so a round-trip through ParseIntent
// reproduces the same field values.
func SerializeIntent(in models.Intent) string {
	var b strings.Builder

	writeField := func(key, value string) {
		if value == "" {
			value = SentinelNone
		}
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}

	writeField(keyOperation, string(in.Operation))

	target := SentinelNone
	if in.TargetID > 0 {
		target = strconv.Itoa(in.TargetID)
	}
	fmt.Fprintf(&b, "%s: %s\n", keyTarget, target)

	writeField(keyContent, in.Content)
	writeField(keyConfidence, string(in.Confidence))
	writeField(keyLabels, strings.Join(in.Labels, ", "))
	writeField(keyAssignees, strings.Join(in.Assignees, ", "))
	writeField(keyMilestone, in.Milestone)
	writeField(keyPriority, in.Priority)
	writeField(keyTone, in.Tone)
	writeField(keyInstructions, in.Instructions)

	return b.String()
}
