package blueprint

import (
	"regexp"
	"strings"
)

var (
	openingFenceRE = regexp.MustCompile("(?i)^```[a-z0-9_+-]*[ \t]*\r?\n?")
	closingFenceRE = regexp.MustCompile("\r?\n?```\\s*$")
	strayFenceRE   = regexp.MustCompile("(?i)```[a-z0-9_+-]*\r?\n?")
)

// stripFences removes markdown code-fence wrappers from a model response.
// It handles the common ```json ... ``` wrapper plus stray fences some models
// emit mid-response. Returns the cleaned text and whether anything was
// removed.
func stripFences(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	removed := false

	if m := openingFenceRE.FindString(s); m != "" {
		s = s[len(m):]
		removed = true
	}
	if loc := closingFenceRE.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
		removed = true
	}
	// Nested or duplicated fences show up in some models' output.
	if strings.Contains(s, "```") {
		s = strayFenceRE.ReplaceAllString(s, "")
		removed = true
	}

	return strings.TrimSpace(s), removed
}
