package generate

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the generation request into the blueprint contract
// prompt. The contract mirrors what the validation pipeline enforces:
// metadata identity fields plus displayType-tagged sections.
func BuildPrompt(req Request) string {
	var goals string
	if len(req.Goals) > 0 {
		goals = "- Goals: " + strings.Join(req.Goals, "; ") + "\n"
	}
	audience := req.Audience
	if audience == "" {
		audience = "general staff"
	}
	duration := ""
	if req.DurationWeeks > 0 {
		duration = fmt.Sprintf("- Duration: %d weeks\n", req.DurationWeeks)
	}

	return fmt.Sprintf(`You are an expert learning designer. Create a learning blueprint as EXACTLY ONE JSON object:
{
  "metadata": {
    "title": "string",
    "organization": "string",
    "role": "string",
    "generated_at": "ISO-8601 UTC timestamp"
  },
  "<section_key>": {
    "displayType": "infographic | timeline | chart | table | markdown",
    ...section content...
  }
}

Rules:
- Output JSON ONLY. No markdown fences. No extra text.
- metadata.organization must be %q and metadata.role must be %q.
- Include at least these sections: overview, objectives, implementation_plan (phases with start_date), resources, risks, kpis.
- Every section must carry a valid displayType.

Request:
- Topic: %s
- Organization: %s
- Role: %s
- Audience: %s
%s%s`, req.Organization, req.Role, req.Topic, req.Organization, req.Role, audience, duration, goals)
}

// BuildRepairPrompt asks the model to convert its previous malformed output
// into the blueprint contract. Used for the single repair attempt the
// callers make; the pipeline itself never retries.
func BuildRepairPrompt(req Request, previousOutput string) string {
	if previousOutput == "" {
		previousOutput = "<empty>"
	}

	return fmt.Sprintf(`You returned invalid JSON or did not follow the blueprint contract.

Convert the TEXT below into EXACTLY ONE valid JSON object with this shape:
{
  "metadata": {"title": "string", "organization": %q, "role": %q, "generated_at": "ISO-8601 UTC timestamp"},
  "<section_key>": {"displayType": "infographic | timeline | chart | table | markdown", ...}
}

Rules:
- Output JSON ONLY. No markdown fences. No extra text.
- Keep as much of the original content as possible.
- If content is missing, produce a minimal valid blueprint and note gaps in an "overview" section.

TEXT:
<<<
%s
>>>
`, req.Organization, req.Role, previousOutput)
}
