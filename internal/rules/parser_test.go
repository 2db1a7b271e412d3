package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_WrappedJSON(t *testing.T) {
	content := `Here is the extracted rule set:

{
  "business_rules": [
    {
      "rule_id": "RULE_001",
      "rule_name": "Age Eligibility",
      "rule_logic": "<if> APPLICANT_AGE > 18\n    <thn> ELIGIBLE = True",
      "category": "eligibility",
      "variables_used": ["APPLICANT_AGE", "ELIGIBLE"],
      "description": "Applicant must be an adult"
    }
  ],
  "variables": [
    {"variable_name": "APPLICANT_AGE", "data_type": "number", "description": "Age in years"}
  ],
  "constants": [
    {"constant_name": "MIN_AGE", "value": 18, "description": "Minimum age"}
  ]
}

Let me know if you need anything else.`

	doc := parseResponse(content, "groq")
	require.Empty(t, doc.ParseError)
	assert.Equal(t, MethodAIGenerated, doc.ExtractionMethod)
	assert.Equal(t, "groq", doc.Provider)
	require.Len(t, doc.BusinessRules, 1)
	assert.Equal(t, "Age Eligibility", doc.BusinessRules[0].RuleName)
	require.Len(t, doc.Constants, 1)
	assert.EqualValues(t, 18, doc.Constants[0].Value)
}

func TestParseResponse_BackfillsMissingFields(t *testing.T) {
	content := `{"business_rules": [{"rule_logic": "<if> X > 0\n    <thn> Y = 1"}, {"rule_logic": "<if> A = True\n    <thn> B = 2"}]}`

	doc := parseResponse(content, "groq")
	require.Empty(t, doc.ParseError)
	require.Len(t, doc.BusinessRules, 2)

	first := doc.BusinessRules[0]
	assert.Equal(t, "RULE_001", first.RuleID)
	assert.Equal(t, "Generated Rule", first.RuleName)
	assert.Equal(t, "general", first.Category)
	assert.NotNil(t, first.VariablesUsed)

	assert.Equal(t, "RULE_002", doc.BusinessRules[1].RuleID)
	assert.NotNil(t, doc.Variables, "absent sections become empty lists")
	assert.NotNil(t, doc.Constants)
}

func TestParseResponse_NoJSON(t *testing.T) {
	doc := parseResponse("I could not find any rules in this document.", "groq")

	assert.Equal(t, "no valid JSON found in response", doc.ParseError)
	assert.Equal(t, MethodAIGenerated, doc.ExtractionMethod)
	assert.Empty(t, doc.BusinessRules)
	assert.NotNil(t, doc.BusinessRules)
	assert.NotNil(t, doc.Variables)
	assert.NotNil(t, doc.Constants)
	assert.Contains(t, doc.RawResponse, "could not find")
}

func TestParseResponse_MalformedJSONKeepsTruncatedRaw(t *testing.T) {
	content := "{ broken json " + strings.Repeat("x", 2000) + " }"

	doc := parseResponse(content, "groq")
	assert.Contains(t, doc.ParseError, "failed to parse response")
	assert.Len(t, doc.RawResponse, rawResponseLimit)
}
