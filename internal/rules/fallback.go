package rules

import (
	"fmt"
	"strings"
)

// Fallback extraction bounds.
const (
	minSentenceLength = 20
	maxFallbackRules  = 10
)

// patternSet maps one rule category onto its trigger keywords and the
// synthetic rule template emitted on a match.
type patternSet struct {
	category  string
	ruleName  string
	keywords  []string
	condition string
	action    string
}

// The five categories scanned, in emission order. Order matters for
// determinism: given identical text, two runs produce identical output.
var fallbackPatterns = []patternSet{
	{
		category:  "obligation",
		ruleName:  "Obligation Rule",
		keywords:  []string{"shall", "must", "required to", "agrees to", "undertakes to"},
		condition: "PARTY_TYPE = 'OBLIGATED'",
		action:    "ACTION_REQUIRED",
	},
	{
		category:  "restriction",
		ruleName:  "Restriction Rule",
		keywords:  []string{"shall not", "may not", "prohibited", "forbidden", "cannot"},
		condition: "PARTY_TYPE = 'RESTRICTED'",
		action:    "ACTION_FORBIDDEN",
	},
	{
		category:  "condition",
		ruleName:  "Conditional Rule",
		keywords:  []string{"if", "when", "unless", "provided that", "in the event"},
		condition: "CONDITION_MET = True",
		action:    "CONSEQUENCE",
	},
	{
		category:  "payment",
		ruleName:  "Financial Rule",
		keywords:  []string{"pay", "payment", "fee", "cost", "price", "$", "dollar", "vnd", "đồng"},
		condition: "PAYMENT_DUE = True",
		action:    "AMOUNT_CALCULATION",
	},
	{
		category:  "termination",
		ruleName:  "Termination Rule",
		keywords:  []string{"terminate", "termination", "expire", "cancel"},
		condition: "TERMINATION_TRIGGERED = True",
		action:    "TERMINATION_ACTION",
	},
}

// FallbackExtract derives rules by keyword pattern matching, used when the
// chat model is unconfigured or fails. Fully deterministic with no external
// dependency: the system's availability floor. At most maxFallbackRules
// rules are emitted.
func FallbackExtract(text, documentType string) *RuleDocument {
	doc := &RuleDocument{
		BusinessRules:    []BusinessRule{},
		Variables:        fallbackVariables(),
		Constants:        []RuleConstant{},
		Provider:         ProviderPatternMatching,
		ExtractionMethod: MethodFallback,
		RuleFormat:       FormatStructuredConditional,
	}

	counter := 1
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < minSentenceLength {
			continue
		}
		lower := strings.ToLower(sentence)

		for _, set := range fallbackPatterns {
			if !matchesAny(lower, set.keywords) {
				continue
			}
			doc.BusinessRules = append(doc.BusinessRules, BusinessRule{
				RuleID:        fmt.Sprintf("RULE_%03d", counter),
				RuleName:      fmt.Sprintf("%s %d", set.ruleName, counter),
				RuleLogic:     fmt.Sprintf("<if> %s\n    <thn> %s = '%s'", set.condition, set.action, sentence),
				Category:      set.category,
				VariablesUsed: []string{strings.SplitN(set.condition, " ", 2)[0], set.action},
				Description:   fmt.Sprintf("%s requirement: %s...", set.ruleName, truncate(sentence, 100)),
			})
			counter++
		}
	}

	if len(doc.BusinessRules) > maxFallbackRules {
		doc.BusinessRules = doc.BusinessRules[:maxFallbackRules]
	}
	return doc
}

func matchesAny(sentence string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(sentence, keyword) {
			return true
		}
	}
	return false
}

// fallbackVariables is the canned variable list attached to every fallback
// document.
func fallbackVariables() []RuleVariable {
	return []RuleVariable{
		{
			VariableName:   "PARTY_TYPE",
			DataType:       "string",
			Description:    "Type of party in the contract",
			PossibleValues: []string{"BUYER", "SELLER", "OBLIGATED", "RESTRICTED"},
		},
		{
			VariableName:   "CONDITION_MET",
			DataType:       "boolean",
			Description:    "Whether a specific condition is satisfied",
			PossibleValues: []string{"True", "False"},
		},
		{
			VariableName:   "PAYMENT_DUE",
			DataType:       "boolean",
			Description:    "Whether payment is required",
			PossibleValues: []string{"True", "False"},
		},
	}
}
