package blueprint

import "strings"

type extractReport struct {
	// PreambleRemoved is the number of bytes dropped before the first
	// opening brace or bracket.
	PreambleRemoved int
	// TrailingRemoved is the number of bytes dropped after the last
	// balanced closure.
	TrailingRemoved int
	// Balanced reports whether the scan saw at least one position where
	// both counters returned to zero.
	Balanced bool
}

func (r extractReport) touched() bool {
	return r.PreambleRemoved > 0 || r.TrailingRemoved > 0
}

// extractJSONSpan locates the substring spanning the top-level JSON value in
// sanitized model output. It drops conversational preamble before the first
// '{' or '[', then scans character by character tracking string and escape
// state plus brace/bracket depth. Each time both counters return to zero the
// position is recorded; the last balanced closure wins, so trailing prose
// after the JSON is cut while sibling JSON blocks are kept through the final
// one. If no structure is found the input is returned unchanged and the
// parse step reports the failure.
func extractJSONSpan(s string) (string, extractReport) {
	var rep extractReport

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s, rep
	}
	rep.PreambleRemoved = start
	s = s[start:]

	var (
		inString   bool
		escapeNext bool
		braces     int
		brackets   int
	)
	end := -1

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escapeNext = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			braces++
		case '}':
			braces--
			if braces == 0 && brackets == 0 {
				end = i + 1
			}
		case '[':
			brackets++
		case ']':
			brackets--
			if braces == 0 && brackets == 0 {
				end = i + 1
			}
		}
	}

	if end > 0 {
		rep.Balanced = true
		if end < len(s) {
			rep.TrailingRemoved = len(s) - end
			s = s[:end]
		}
	}

	return s, rep
}
