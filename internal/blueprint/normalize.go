package blueprint

import "strings"

// Display types select which renderer a section uses downstream.
const (
	DisplayInfographic = "infographic"
	DisplayTimeline    = "timeline"
	DisplayChart       = "chart"
	DisplayTable       = "table"
	DisplayMarkdown    = "markdown"
)

var validDisplayTypes = map[string]bool{
	DisplayInfographic: true,
	DisplayTimeline:    true,
	DisplayChart:       true,
	DisplayTable:       true,
	DisplayMarkdown:    true,
}

// inferenceRules are evaluated in priority order; the first match wins.
// Kept as an ordered list rather than nested conditionals so rules can be
// extended and tested one by one.
type inferenceRule struct {
	name  string
	match func(key string, sec map[string]any) (string, bool)
}

var inferenceRules = []inferenceRule{
	{name: "timeline_shape", match: matchTimelineShape},
	{name: "table_arrays", match: matchTableArrays},
	{name: "infographic_keys", match: matchInfographicKeys},
	{name: "chart_config", match: matchChartConfig},
	{name: "key_name", match: matchKeyName},
}

func matchTimelineShape(_ string, sec map[string]any) (string, bool) {
	if _, ok := sec["timeline"]; ok {
		return DisplayTimeline, true
	}
	if firstElementHas(sec["phases"], "start_date") {
		return DisplayTimeline, true
	}
	if firstElementHas(sec["modules"], "duration") {
		return DisplayTimeline, true
	}
	return "", false
}

func matchTableArrays(_ string, sec map[string]any) (string, bool) {
	for _, k := range []string{"risks", "human_resources", "tools_and_platforms"} {
		if _, ok := sec[k].([]any); ok {
			return DisplayTable, true
		}
	}
	return "", false
}

func matchInfographicKeys(_ string, sec map[string]any) (string, bool) {
	for _, k := range []string{"objectives", "kpis", "metrics", "demographics"} {
		if _, ok := sec[k]; ok {
			return DisplayInfographic, true
		}
	}
	return "", false
}

func matchChartConfig(_ string, sec map[string]any) (string, bool) {
	if _, ok := sec["chartConfig"]; ok {
		return DisplayChart, true
	}
	if _, ok := sec["chartType"]; ok {
		return DisplayChart, true
	}
	return "", false
}

// keyNameHints maps case-insensitive substrings of a section's key to a
// display type when nothing about its shape decided earlier.
var keyNameHints = []struct {
	substr  string
	display string
}{
	{"timeline", DisplayTimeline},
	{"schedule", DisplayTimeline},
	{"implementation", DisplayTimeline},
	{"resource", DisplayTable},
	{"budget", DisplayTable},
	{"risk", DisplayTable},
	{"metric", DisplayInfographic},
	{"kpi", DisplayInfographic},
	{"objective", DisplayInfographic},
	{"audience", DisplayInfographic},
	{"assessment", DisplayInfographic},
}

func matchKeyName(key string, _ map[string]any) (string, bool) {
	lower := strings.ToLower(key)
	for _, h := range keyNameHints {
		if strings.Contains(lower, h.substr) {
			return h.display, true
		}
	}
	return "", false
}

func firstElementHas(v any, key string) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	first, ok := arr[0].(map[string]any)
	if !ok {
		return false
	}
	_, has := first[key]
	return has
}

func inferDisplayType(key string, sec map[string]any) (string, string) {
	for _, rule := range inferenceRules {
		if dt, ok := rule.match(key, sec); ok {
			return dt, rule.name
		}
	}
	return DisplayMarkdown, "default"
}

// normalizeDocument copies the validated document, guaranteeing every section
// carries a displayType from the fixed enumeration. Invalid explicit values
// are overwritten with markdown rather than propagated downstream.
func (p *Pipeline) normalizeDocument(doc Document) Document {
	out := make(Document, len(doc))
	for key, val := range doc {
		if key == "metadata" {
			out[key] = val
			continue
		}
		out[key] = p.normalizeSection(key, val)
	}
	return out
}

func (p *Pipeline) normalizeSection(key string, val any) any {
	switch sec := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(sec)+1)
		for k, v := range sec {
			out[k] = v
		}

		if raw, has := out["displayType"]; has {
			if s, ok := raw.(string); ok && validDisplayTypes[s] {
				return out
			}
			p.sink.emit("display_type_corrected", map[string]any{
				"section": key,
				"from":    raw,
				"to":      DisplayMarkdown,
			})
			out["displayType"] = DisplayMarkdown
			return out
		}

		dt, rule := inferDisplayType(key, sec)
		p.sink.emit("display_type_inferred", map[string]any{
			"section": key,
			"display": dt,
			"rule":    rule,
		})
		out["displayType"] = dt
		return out

	case []any:
		// Array-valued sections can't carry a displayType themselves, so
		// wrap them. Running inference against {key: array} lets the shape
		// rules see the array under its own name.
		dt, rule := inferDisplayType(key, map[string]any{key: sec})
		p.sink.emit("display_type_inferred", map[string]any{
			"section": key,
			"display": dt,
			"rule":    rule,
		})
		return map[string]any{"displayType": dt, "items": sec}

	default:
		dt, _ := inferDisplayType(key, map[string]any{})
		return map[string]any{"displayType": dt, "content": val}
	}
}
