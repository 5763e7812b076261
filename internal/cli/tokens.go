package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nsql-lang/nsql/engine/lexer"
)

// TokensOptions holds flags for the tokens command.
type TokensOptions struct {
	*RootOptions
	File string
}

// tokenRecord is the JSON shape for one scanned token.
type tokenRecord struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokensOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tokens [query]",
		Short: "Print the token stream for a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file (- for stdin)")

	return cmd
}

func runTokens(opts *TokensOptions, args []string, cmd *cobra.Command) error {
	source, err := readSource(opts.File, args)
	if err != nil {
		return err
	}

	formatter := &Formatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	lx := lexer.New(source)
	var records []tokenRecord
	sawError := false
	for {
		tok := lx.NextToken()
		if tok.Kind == lexer.TOKEN_ERROR {
			sawError = true
		}
		records = append(records, tokenRecord{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Line,
			Column: tok.Start - lx.LineOffset(tok.Line) + 1,
		})
		if tok.Kind == lexer.TOKEN_EOF {
			break
		}
	}

	if formatter.Format == "json" {
		if err := formatter.EmitJSON(records); err != nil {
			return WrapExitError(ExitSoftware, "encoding tokens", err)
		}
	} else {
		for _, r := range records {
			fmt.Fprintf(formatter.Writer, "%4d:%-3d %-12s %q\n", r.Line, r.Column, r.Kind, r.Lexeme)
		}
	}

	if sawError {
		return NewExitError(ExitDataErr, "source contains invalid tokens")
	}
	return nil
}
