// Package rules extracts structured business rules from document text via a
// chat model, with a deterministic pattern-matching fallback.
package rules

// Extraction method and format values carried on every RuleDocument.
const (
	MethodAIGenerated = "ai_generated"
	MethodFallback    = "fallback"

	ProviderPatternMatching = "pattern_matching"

	FormatStructuredConditional = "structured_conditional"
)

// BusinessRule is one extracted rule. RuleLogic holds text in the
// <if>/<and>/<or>/<thn>/<elif>/<else> conditional grammar.
type BusinessRule struct {
	RuleID        string   `json:"rule_id"`
	RuleName      string   `json:"rule_name"`
	RuleLogic     string   `json:"rule_logic"`
	Category      string   `json:"category"`
	VariablesUsed []string `json:"variables_used"`
	Description   string   `json:"description"`
}

// RuleVariable describes a variable referenced by extracted rules.
type RuleVariable struct {
	VariableName   string   `json:"variable_name"`
	DataType       string   `json:"data_type"`
	Description    string   `json:"description"`
	PossibleValues []string `json:"possible_values"`
}

// RuleConstant describes a literal value referenced by extracted rules.
// Value keeps the model's type (string or number).
type RuleConstant struct {
	ConstantName string `json:"constant_name"`
	Value        any    `json:"value"`
	Description  string `json:"description"`
}

// RuleDocument is the terminal result of every extraction, regardless of the
// path taken. The three top-level lists are always present (possibly empty);
// this shape is stable for downstream consumers.
type RuleDocument struct {
	BusinessRules    []BusinessRule `json:"business_rules"`
	Variables        []RuleVariable `json:"variables"`
	Constants        []RuleConstant `json:"constants"`
	Provider         string         `json:"provider"`
	ExtractionMethod string         `json:"extraction_method"`
	RuleFormat       string         `json:"rule_format"`
	RawResponse      string         `json:"raw_response,omitempty"`
	ParseError       string         `json:"error,omitempty"`
}
