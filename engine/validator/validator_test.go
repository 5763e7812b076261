package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMySQL(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		valid     bool
	}{
		{"select", "SELECT name, email FROM users WHERE age > 30", true},
		{"insert", "INSERT INTO users (name) VALUES ('alice')", true},
		{"update", "UPDATE users SET name = 'bob' WHERE id = 7", true},
		{"delete", "DELETE FROM users WHERE age > 90", true},
		{"garbage", "SELEKT * FORM users", false},
		{"dangling where", "SELECT * FROM users WHERE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMySQL(tt.statement)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateMySQLWithDetails(t *testing.T) {
	res, err := ValidateMySQLWithDetails("SELECT 1")
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = ValidateMySQLWithDetails("SELECT FROM WHERE")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Error)
}

func TestValidateMongoDB(t *testing.T) {
	assert.NoError(t, ValidateMongoDB(`{"age": {"$gt": 30}}`))
	assert.NoError(t, ValidateMongoDB(`{}`))
	assert.Error(t, ValidateMongoDB(`{"age": }`))
}

func TestValidateMongoDBWithDetails(t *testing.T) {
	res, err := ValidateMongoDBWithDetails(`{"name": "alice"}`)
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = ValidateMongoDBWithDetails(`{"name": oops}`)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	// Syntax errors carry the byte offset of the failure.
	assert.Greater(t, res.Position, 0)
}

func TestValidateDispatch(t *testing.T) {
	assert.NoError(t, Validate("SELECT 1", "mysql"))
	assert.NoError(t, Validate("{}", "mongodb"))
	assert.Error(t, Validate("SELECT 1", "oracle"))

	res, err := ValidateWithDetails("{}", "mongodb")
	require.NoError(t, err)
	assert.True(t, res.Valid)

	_, err = ValidateWithDetails("SELECT 1", "oracle")
	assert.Error(t, err)
}
