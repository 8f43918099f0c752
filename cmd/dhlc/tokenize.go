package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dhlc/internal/diagfmt"
	"dhlc/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.dhl",
	Short: "Print the token stream of a .dhl file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

var tokenPrinters = map[string]func(io.Writer, *driver.TokenizeResult) error{
	"pretty": func(w io.Writer, r *driver.TokenizeResult) error {
		return diagfmt.FormatTokensPretty(w, r.Tokens, r.FileSet)
	},
	"json": func(w io.Writer, r *driver.TokenizeResult) error {
		return diagfmt.FormatTokensJSON(w, r.Tokens)
	},
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	printTokens, ok := tokenPrinters[format]
	if !ok {
		return fmt.Errorf("unknown token format %q", format)
	}

	res, err := driver.Tokenize(args[0], maxDiags)
	if err != nil {
		return err
	}
	printDiagnostics(os.Stderr, res.Bag, res.FileSet)
	return printTokens(cmd.OutOrStdout(), res)
}
