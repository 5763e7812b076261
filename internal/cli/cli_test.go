package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitUsage, GetExitCode(NewExitError(ExitUsage, "bad flag")))
	assert.Equal(t, ExitDataErr, GetExitCode(WrapExitError(ExitDataErr, "decode", errors.New("boom"))))
	assert.Equal(t, ExitSoftware, GetExitCode(errors.New("plain error")))

	// Wrapped ExitErrors keep their code through error chains.
	wrapped := WrapExitError(ExitSoftware, "outer", NewExitError(ExitIOErr, "inner"))
	assert.Equal(t, ExitSoftware, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "bad flag", NewExitError(ExitUsage, "bad flag").Error())
	assert.Equal(t, "decode: boom",
		WrapExitError(ExitDataErr, "decode", errors.New("boom")).Error())
}

func TestReadSourceJoinsArgs(t *testing.T) {
	source, err := readSource("", []string{"ASK", "users", "FOR", "name"})
	require.NoError(t, err)
	assert.Equal(t, "ASK users FOR name", source)
}

func TestReadSourceRequiresInput(t *testing.T) {
	_, err := readSource("", nil)
	require.Error(t, err)
	assert.Equal(t, ExitUsage, GetExitCode(err))
}

func TestReadSourceMissingFile(t *testing.T) {
	_, err := readSource("/no/such/file.nsql", nil)
	require.Error(t, err)
	assert.Equal(t, ExitIOErr, GetExitCode(err))
}

func TestIsValidFormat(t *testing.T) {
	for _, f := range ValidFormats {
		assert.True(t, isValidFormat(f))
	}
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}

func TestFormatterEmitAddsNewline(t *testing.T) {
	var out bytes.Buffer
	f := &Formatter{Format: "text", Writer: &out}

	f.Emit("no trailing newline")
	assert.Equal(t, "no trailing newline\n", out.String())

	out.Reset()
	f.Emit("already terminated\n")
	assert.Equal(t, "already terminated\n", out.String())
}

func TestFormatterDiagnosticsGoToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &Formatter{Format: "json", Writer: &out, ErrWriter: &errOut}

	f.Diagnostics("")
	assert.Empty(t, errOut.String())

	f.Diagnostics("1 error(s)")
	assert.Equal(t, "1 error(s)\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestParseCommandOutput(t *testing.T) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"parse", "ASK users FOR name"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ASK QUERY")
	assert.Contains(t, out.String(), "IDENTIFIER: users")
}

func TestParseCommandSyntaxError(t *testing.T) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"parse", "ASK users name"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitDataErr, GetExitCode(err))
	assert.Contains(t, errOut.String(), "error")
}

func TestRootRejectsBadFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--format", "yaml", "parse", "ASK users FOR name"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitUsage, GetExitCode(err))
}
