package blueprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func normalizeOne(t *testing.T, key string, section any) map[string]any {
	t.Helper()

	p := New(nil)
	out := p.normalizeSection(key, section)
	sec, ok := out.(map[string]any)
	require.True(t, ok, "normalized section must be an object")
	return sec
}

func TestNormalize_PhasesWithStartDate(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "rollout", map[string]any{
		"phases": []any{map[string]any{"start_date": "2025-02-01"}},
	})
	require.Equal(t, DisplayTimeline, sec["displayType"])
}

func TestNormalize_ModulesWithDuration(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "curriculum", map[string]any{
		"modules": []any{map[string]any{"duration": "2 weeks"}},
	})
	require.Equal(t, DisplayTimeline, sec["displayType"])
}

func TestNormalize_PhasesWithoutStartDateFallThrough(t *testing.T) {
	t.Parallel()

	// Shape rule 1 requires start_date on the first phase; without it the
	// key-name rule decides nothing for "content" and markdown wins.
	sec := normalizeOne(t, "content", map[string]any{
		"phases": []any{map[string]any{"name": "p1"}},
	})
	require.Equal(t, DisplayMarkdown, sec["displayType"])
}

func TestNormalize_RisksArrayMeansTable(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "mitigation", map[string]any{
		"risks": []any{map[string]any{"risk": "x"}},
	})
	require.Equal(t, DisplayTable, sec["displayType"])
}

func TestNormalize_KPIsMeanInfographic(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "success", map[string]any{
		"kpis": []any{"retention"},
	})
	require.Equal(t, DisplayInfographic, sec["displayType"])
}

func TestNormalize_ChartConfig(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "progress", map[string]any{
		"chartType": "bar",
		"series":    []any{1, 2, 3},
	})
	require.Equal(t, DisplayChart, sec["displayType"])
}

func TestNormalize_KeyNameFallback(t *testing.T) {
	t.Parallel()

	require.Equal(t, DisplayTimeline, normalizeOne(t, "implementation_plan", map[string]any{"body": "x"})["displayType"])
	require.Equal(t, DisplayTable, normalizeOne(t, "budget_breakdown", map[string]any{"body": "x"})["displayType"])
	require.Equal(t, DisplayInfographic, normalizeOne(t, "target_audience", map[string]any{"body": "x"})["displayType"])
}

func TestNormalize_Default(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "summary", map[string]any{"body": "x"})
	require.Equal(t, DisplayMarkdown, sec["displayType"])
}

func TestNormalize_ShapeBeatsKeyName(t *testing.T) {
	t.Parallel()

	// Key says timeline but the risks array matches... the timeline shape
	// rules run first and don't match, then table_arrays wins over the
	// key-name hint.
	sec := normalizeOne(t, "timeline_notes", map[string]any{
		"risks": []any{map[string]any{"risk": "x"}},
	})
	require.Equal(t, DisplayTable, sec["displayType"])
}

func TestNormalize_InvalidExplicitDisplayType(t *testing.T) {
	t.Parallel()

	var corrected bool
	p := New(func(event string, _ map[string]any) {
		if event == "display_type_corrected" {
			corrected = true
		}
	})

	out := p.normalizeSection("video_section", map[string]any{"displayType": "video"})
	sec := out.(map[string]any)
	require.Equal(t, DisplayMarkdown, sec["displayType"])
	require.True(t, corrected)
}

func TestNormalize_ValidExplicitDisplayTypeKept(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "risks_section", map[string]any{"displayType": "infographic"})
	require.Equal(t, DisplayInfographic, sec["displayType"])
}

func TestNormalize_ScalarSectionWrapped(t *testing.T) {
	t.Parallel()

	sec := normalizeOne(t, "notes", "plain text section")
	require.Equal(t, DisplayMarkdown, sec["displayType"])
	require.Equal(t, "plain text section", sec["content"])
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := map[string]any{"body": "x"}
	p := New(nil)
	_ = p.normalizeSection("summary", in)
	_, has := in["displayType"]
	require.False(t, has)
}
