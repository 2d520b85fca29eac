// Package blueprint recovers structured learning-blueprint documents from
// unreliable LLM output. Models wrap JSON in prose, markdown fences, or
// trailing commentary; the pipeline sanitizes, extracts, parses, validates
// and normalizes the response into a document every renderer downstream can
// trust.
package blueprint

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Document is the untyped blueprint tree: a metadata object plus one or more
// section keys. After ParseDocument every section carries a displayType from
// the fixed enumeration.
type Document = map[string]any

// Pipeline turns raw model text into a validated, normalized Document. It
// holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	sink Sink
}

// New builds a pipeline. sink may be nil.
func New(sink Sink) *Pipeline {
	return &Pipeline{sink: sink}
}

// desperateRE grabs the largest brace- or bracket-delimited span as a last
// resort when the structural scan found nothing to fix.
var desperateRE = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)

const previewLimit = 200

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= previewLimit {
		return s
	}
	// Back off to a rune boundary so the cut never splits a UTF-8 sequence.
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// Parse extracts and parses the JSON payload out of raw model text. The
// returned value may be any JSON type; structural guarantees come from
// ParseDocument.
func (p *Pipeline) Parse(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, newError(CodeEmptyResponse, "model response is empty", nil)
	}

	cleaned, fencesRemoved := stripFences(raw)
	if fencesRemoved {
		p.sink.emit("fences_stripped", map[string]any{
			"cleaned_preview": preview(cleaned),
		})
	}

	span, rep := extractJSONSpan(cleaned)
	if rep.PreambleRemoved > 0 {
		p.sink.emit("preamble_dropped", map[string]any{
			"bytes":   rep.PreambleRemoved,
			"dropped": preview(cleaned[:rep.PreambleRemoved]),
		})
	}
	if rep.TrailingRemoved > 0 {
		p.sink.emit("trailing_dropped", map[string]any{
			"bytes": rep.TrailingRemoved,
		})
	}

	var v any
	if err := json.Unmarshal([]byte(span), &v); err == nil {
		return v, nil
	}

	// The structural scan found nothing to do, so the malformation is more
	// exotic than fences or surrounding prose. Try the largest delimited
	// span before giving up.
	if !fencesRemoved && !rep.touched() {
		if m := desperateRE.FindString(cleaned); m != "" {
			if err := json.Unmarshal([]byte(m), &v); err == nil {
				p.sink.emit("desperate_extraction_succeeded", map[string]any{
					"span_preview": preview(m),
				})
				return v, nil
			}
		}
	}

	return nil, newError(CodeInvalidJSON, "no parseable JSON structure found", map[string]any{
		"cleaned_preview":  preview(span),
		"original_preview": preview(raw),
	})
}

// ParseDocument runs the full pipeline: Parse, then structural validation,
// then displayType normalization. On success every section of the returned
// document carries a valid displayType.
func (p *Pipeline) ParseDocument(raw string) (Document, error) {
	v, err := p.Parse(raw)
	if err != nil {
		return nil, err
	}

	doc, err := p.validateStructure(v)
	if err != nil {
		return nil, err
	}

	return p.normalizeDocument(doc), nil
}
