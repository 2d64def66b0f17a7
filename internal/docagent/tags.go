package docagent

import (
	"strings"
)

// extractTag returns the text between the first <tag>...</tag> pair found
// in response, mirroring the original agents' plain substring search
// (not a full XML parser, since the LLM's output is not guaranteed to be
// well-formed XML outside the tags themselves).
func extractTag(response, tag string) (string, bool) {
	open := "<" + tag + ">"
	close := "</" + tag + ">"
	start := strings.Index(response, open)
	if start < 0 {
		return "", false
	}
	start += len(open)
	end := strings.Index(response[start:], close)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(response[start : start+end]), true
}

// extractBoolTag reads a <tag>true/false</tag> pair, defaulting to
// defaultVal when the tag is absent or unparsable.
func extractBoolTag(response, tag string, defaultVal bool) bool {
	val, ok := extractTag(response, tag)
	if !ok {
		return defaultVal
	}
	return strings.EqualFold(strings.TrimSpace(val), "true")
}

// splitCommaList splits a comma-separated tag body into trimmed, non-empty
// items, matching the original agents' "comma-separated values without
// spaces" convention.
func splitCommaList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
