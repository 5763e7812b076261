package validator

import (
	"encoding/json"
)

// ValidateMongoDB checks that a rendered filter/command document is
// well-formed JSON.
func ValidateMongoDB(document string) error {
	var doc any
	return json.Unmarshal([]byte(document), &doc)
}

// ValidateMongoDBWithDetails returns a structured validation result,
// including the byte offset for syntax errors.
func ValidateMongoDBWithDetails(document string) (*ValidationResult, error) {
	var doc any
	err := json.Unmarshal([]byte(document), &doc)
	if err != nil {
		if syntaxErr, ok := err.(*json.SyntaxError); ok {
			return &ValidationResult{
				Valid:    false,
				Error:    err.Error(),
				Position: int(syntaxErr.Offset),
			}, nil
		}
		return &ValidationResult{
			Valid: false,
			Error: err.Error(),
		}, nil
	}
	return &ValidationResult{Valid: true}, nil
}
