// Package catalog owns the relational source of truth for the variable
// catalog and document records, and the engine that reconciles the variable
// catalog into the vector index.
package catalog

import (
	"errors"
	"time"
)

var (
	ErrVariableNotFound = errors.New("variable not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// VariableRecord is a catalog variable as stored in the relational table.
// variable_code is the natural dedup key; it must be unique in the table.
type VariableRecord struct {
	ID                  int64     `json:"id"`
	VariableType        string    `json:"variable_type"`
	ParameterID         string    `json:"parameter_id"`
	GroupParameter      string    `json:"group_parameter"`
	VariableCode        string    `json:"variable_code"`
	VariableName        string    `json:"variable_name"`
	DesVarEng           string    `json:"des_var_eng"`
	VariableDescription string    `json:"variable_description"`
	CustomerLoanLevel   string    `json:"customer_loan_level"`
	GroupLevel1         string    `json:"group_level_1"`
	GroupLevel2         string    `json:"group_level_2"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DocumentRecord is an uploaded document after text extraction.
// Content holds the already-extracted plain text; file bytes live elsewhere.
type DocumentRecord struct {
	ID           string
	Filename     string
	DocumentType string
	Content      string
	FileSize     int64
	CreatedAt    time.Time
}
