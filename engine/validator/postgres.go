package validator

import (
	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// ValidatePostgreSQL checks the statement against the real PostgreSQL
// grammar.
func ValidatePostgreSQL(statement string) error {
	_, err := pg_query.Parse(statement)
	return err
}

// ValidatePostgreSQLWithDetails returns a structured validation result.
func ValidatePostgreSQLWithDetails(statement string) (*ValidationResult, error) {
	_, err := pg_query.Parse(statement)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Error: err.Error(),
		}, nil
	}
	return &ValidationResult{Valid: true}, nil
}
