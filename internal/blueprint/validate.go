package blueprint

import (
	"fmt"
	"strings"
)

// metadataFields are the load-bearing identity fields. Their absence fails
// the document; presentation hints never do.
var metadataFields = []string{"title", "organization", "role", "generated_at"}

func (p *Pipeline) validateStructure(v any) (Document, error) {
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, newError(CodeInvalidStructure, "top-level JSON is not an object", map[string]any{
			"type": fmt.Sprintf("%T", v),
		})
	}

	meta, ok := doc["metadata"].(map[string]any)
	if !ok {
		return nil, newError(CodeMissingMetadata, "document has no metadata object", nil)
	}

	for _, field := range metadataFields {
		s, _ := meta[field].(string)
		if strings.TrimSpace(s) == "" {
			return nil, newError(CodeMissingMetadataField,
				fmt.Sprintf("metadata is missing %q", field),
				map[string]any{"field": field})
		}
	}

	sections := 0
	for key, val := range doc {
		if key == "metadata" {
			continue
		}
		sections++
		if sec, ok := val.(map[string]any); ok {
			if _, has := sec["displayType"]; !has {
				// Soft failure: the normalizer repairs this.
				p.sink.emit("section_missing_display_type", map[string]any{
					"section": key,
				})
			}
		}
	}
	if sections == 0 {
		return nil, newError(CodeNoSections, "document has no content sections beyond metadata", nil)
	}

	return doc, nil
}
