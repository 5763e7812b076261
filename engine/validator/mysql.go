package validator

import (
	"github.com/xwb1989/sqlparser"
)

// ValidateMySQL checks the statement against a MySQL-dialect parser.
func ValidateMySQL(statement string) error {
	_, err := sqlparser.Parse(statement)
	return err
}

// ValidateMySQLWithDetails returns a structured validation result.
func ValidateMySQLWithDetails(statement string) (*ValidationResult, error) {
	_, err := sqlparser.Parse(statement)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Error: err.Error(),
		}, nil
	}
	return &ValidationResult{Valid: true}, nil
}
