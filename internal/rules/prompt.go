package rules

import "fmt"

// PromptTextBudget is the maximum document text included in the extraction
// prompt, to respect model context limits.
const PromptTextBudget = 4000

const systemPrompt = "You are an expert legal document analyzer specializing in extracting business rules and key terms from contracts and policies. You can work with documents in both Vietnamese and English languages."

const promptTemplate = `Analyze the following %s and extract business rules in a structured conditional format.
%s

Create business rules using this structured format:

<if> CONDITION
    <and> ADDITIONAL_CONDITION
    <or> ALTERNATIVE_CONDITION
    <thn> ACTION_TO_TAKE
<elif> DIFFERENT_CONDITION
    <thn> DIFFERENT_ACTION
<else>
    <thn> DEFAULT_ACTION

Example format:
<if> APPLICANT_AGE > 18
    <and> WORK_EXPERIENCE > 12
    <and> LOAN_END_DATE > RETIREMENT_DATE
        <if> EARLY_RETIREMENT = True
            <and> INCOME_VERIFIED = 1
            <thn> INCOME_RECORD = INCOME_RECORD * REFERENCE_SALARY
        <elif> EARLY_RETIREMENT = False
            <if> INSURANCE_PROOF = True
                <and> INSURANCE_DURATION >= 3
                <thn> INCOME_RECORD = SALARY_RECORD * INSURANCE_SALARY
            <else>
                <thn> INCOME_RECORD = 0

Extract and convert contract terms into this format. Focus on:
1. Eligibility conditions (age, experience, qualifications)
2. Payment conditions (amounts, timing, methods)
3. Approval/rejection logic
4. Penalty calculations
5. Termination conditions
6. Compliance requirements

Return the response in this JSON structure:
{
    "business_rules": [
        {
            "rule_id": "RULE_001",
            "rule_name": "Descriptive name",
            "rule_logic": "Complete rule in structured format",
            "category": "eligibility/payment/approval/penalty/termination/compliance",
            "variables_used": ["VAR1", "VAR2", "VAR3"],
            "description": "What this rule does"
        }
    ],
    "variables": [
        {
            "variable_name": "VARIABLE_NAME",
            "data_type": "number/string/boolean/date",
            "description": "What this variable represents",
            "possible_values": ["value1", "value2"]
        }
    ],
    "constants": [
        {
            "constant_name": "CONSTANT_NAME",
            "value": "actual_value",
            "description": "What this constant represents"
        }
    ]
}

Document text:
%s

Please provide only the JSON response without additional commentary.
Convert all contract conditions into structured business rules using the <if><and><or><thn><elif><else> format.`

// buildPrompt assembles the extraction prompt, truncating the document text
// to the prompt budget without splitting a multibyte character.
func buildPrompt(text, documentType string, locale Locale) string {
	return fmt.Sprintf(promptTemplate, documentType, languageInstruction(locale), truncate(text, PromptTextBudget))
}
