package blueprint

import "testing"

func TestExtractJSONSpan_CleanObjectUntouched(t *testing.T) {
	in := `{"a":1}`
	out, rep := extractJSONSpan(in)
	if out != in {
		t.Fatalf("unexpected span: %s", out)
	}
	if rep.touched() {
		t.Fatalf("expected no changes, got %+v", rep)
	}
	if !rep.Balanced {
		t.Fatalf("expected balanced report")
	}
}

func TestExtractJSONSpan_DropsPreambleAndTrailing(t *testing.T) {
	out, rep := extractJSONSpan("Sure, here it is: {\"a\":1} hope that helps!")
	if out != `{"a":1}` {
		t.Fatalf("unexpected span: %s", out)
	}
	if rep.PreambleRemoved == 0 || rep.TrailingRemoved == 0 {
		t.Fatalf("expected preamble and trailing removal, got %+v", rep)
	}
}

func TestExtractJSONSpan_LastBalancedClosureWins(t *testing.T) {
	// Two sibling blocks: the cut point is after the second one closes,
	// keeping the separating text.
	out, _ := extractJSONSpan("{\"a\":1} and also {\"b\":2} bye")
	if out != "{\"a\":1} and also {\"b\":2}" {
		t.Fatalf("unexpected span: %s", out)
	}
}

func TestExtractJSONSpan_BracesInsideStrings(t *testing.T) {
	in := `{"a":"{curly} and } inside"}`
	out, rep := extractJSONSpan(in + " trailing")
	if out != in {
		t.Fatalf("unexpected span: %s", out)
	}
	if rep.TrailingRemoved == 0 {
		t.Fatalf("expected trailing removal")
	}
}

func TestExtractJSONSpan_EscapedQuoteInString(t *testing.T) {
	in := `{"a":"say \"hi\" {now}"}`
	out, _ := extractJSONSpan(in)
	if out != in {
		t.Fatalf("unexpected span: %s", out)
	}
}

func TestExtractJSONSpan_ApostropheInString(t *testing.T) {
	// Apostrophes are not string delimiters; "don't" must not toggle the
	// string state and break the depth count.
	in := `{"a":"don't","b":{"c":1}}`
	out, rep := extractJSONSpan(in + "\nextra")
	if out != in {
		t.Fatalf("unexpected span: %s", out)
	}
	if !rep.Balanced {
		t.Fatalf("expected balanced report")
	}
}

func TestExtractJSONSpan_Array(t *testing.T) {
	out, _ := extractJSONSpan("prefix [1,2,{\"a\":3}] suffix")
	if out != `[1,2,{"a":3}]` {
		t.Fatalf("unexpected span: %s", out)
	}
}

func TestExtractJSONSpan_NoStructure(t *testing.T) {
	in := "no json here"
	out, rep := extractJSONSpan(in)
	if out != in {
		t.Fatalf("unexpected span: %s", out)
	}
	if rep.touched() || rep.Balanced {
		t.Fatalf("expected untouched report, got %+v", rep)
	}
}

func TestExtractJSONSpan_UnterminatedString(t *testing.T) {
	in := `{"a": "never closed`
	out, rep := extractJSONSpan(in)
	if out != in {
		t.Fatalf("unexpected span: %s", out)
	}
	if rep.Balanced {
		t.Fatalf("expected no balanced closure")
	}
}
