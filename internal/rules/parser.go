package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawResponseLimit caps the raw model output preserved for diagnostics when
// parsing fails.
const rawResponseLimit = 1000

// parseResponse extracts the JSON object from raw model output and builds a
// well-formed RuleDocument. The model often wraps its JSON in commentary, so
// the substring between the first '{' and the last '}' is parsed. Missing
// required keys are back-filled with defaults rather than rejecting the
// document; only a wholly unparseable response yields the empty-list shape,
// with the truncated raw text preserved.
func parseResponse(content, provider string) *RuleDocument {
	doc := &RuleDocument{
		BusinessRules:    []BusinessRule{},
		Variables:        []RuleVariable{},
		Constants:        []RuleConstant{},
		Provider:         provider,
		ExtractionMethod: MethodAIGenerated,
		RuleFormat:       FormatStructuredConditional,
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		doc.RawResponse = truncate(content, rawResponseLimit)
		doc.ParseError = "no valid JSON found in response"
		return doc
	}

	var parsed RuleDocument
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		doc.RawResponse = truncate(content, rawResponseLimit)
		doc.ParseError = fmt.Sprintf("failed to parse response: %v", err)
		return doc
	}

	if parsed.BusinessRules != nil {
		doc.BusinessRules = parsed.BusinessRules
	}
	if parsed.Variables != nil {
		doc.Variables = parsed.Variables
	}
	if parsed.Constants != nil {
		doc.Constants = parsed.Constants
	}

	for i := range doc.BusinessRules {
		rule := &doc.BusinessRules[i]
		if rule.RuleID == "" {
			rule.RuleID = fmt.Sprintf("RULE_%03d", i+1)
		}
		if rule.RuleName == "" {
			rule.RuleName = "Generated Rule"
		}
		if rule.Category == "" {
			rule.Category = "general"
		}
		if rule.VariablesUsed == nil {
			rule.VariablesUsed = []string{}
		}
	}

	return doc
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
