// Package validator checks generated backend statements against real
// dialect parsers before anything is sent to an engine.
package validator

import "fmt"

// ValidationResult carries detailed validation output.
type ValidationResult struct {
	Valid    bool
	Error    string
	Position int    // character position of the error, when known
	NearText string // text near the error, when known
}

// Validate checks a generated statement against the named dialect.
func Validate(statement, dialect string) error {
	switch dialect {
	case "postgres":
		return ValidatePostgreSQL(statement)
	case "mysql":
		return ValidateMySQL(statement)
	case "mongodb":
		return ValidateMongoDB(statement)
	default:
		return fmt.Errorf("validator: unsupported dialect %q", dialect)
	}
}

// ValidateWithDetails is Validate with a structured result instead of a
// bare error.
func ValidateWithDetails(statement, dialect string) (*ValidationResult, error) {
	switch dialect {
	case "postgres":
		return ValidatePostgreSQLWithDetails(statement)
	case "mysql":
		return ValidateMySQLWithDetails(statement)
	case "mongodb":
		return ValidateMongoDBWithDetails(statement)
	default:
		return nil, fmt.Errorf("validator: unsupported dialect %q", dialect)
	}
}
