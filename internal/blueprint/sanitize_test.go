package blueprint

import "testing"

func TestStripFences_JSONFence(t *testing.T) {
	out, removed := stripFences("```json\n{\"a\":1}\n```")
	if out != `{"a":1}` {
		t.Fatalf("unexpected output: %q", out)
	}
	if !removed {
		t.Fatalf("expected removal flag")
	}
}

func TestStripFences_UppercaseLanguageTag(t *testing.T) {
	out, _ := stripFences("```JSON\n{\"a\":1}\n```")
	if out != `{"a":1}` {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestStripFences_BareFence(t *testing.T) {
	out, _ := stripFences("```\n[1,2]\n```")
	if out != "[1,2]" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestStripFences_StrayFenceInsideBody(t *testing.T) {
	out, removed := stripFences("{\"a\":1}\n```\n{\"b\":2}")
	if out != "{\"a\":1}\n{\"b\":2}" {
		t.Fatalf("unexpected output: %q", out)
	}
	if !removed {
		t.Fatalf("expected removal flag")
	}
}

func TestStripFences_NoFences(t *testing.T) {
	out, removed := stripFences("  {\"a\":1}  ")
	if out != `{"a":1}` {
		t.Fatalf("unexpected output: %q", out)
	}
	if removed {
		t.Fatalf("expected no removal flag")
	}
}
