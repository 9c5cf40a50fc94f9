package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/xmlctx"
)

var checkCmd = &cobra.Command{
	Use:   "root [file]",
	Short: "Check a document's root element",
	Long: `Peeks the first element of an XML document and compares its local name
with --expect. Reads stdin when no file is given. Empty documents and
mismatching roots are reported separately from malformed input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expect, _ := cmd.Flags().GetString("expect")
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return runCheck(cmd.OutOrStdout(), in, expect)
	},
}

func init() {
	checkCmd.Flags().String("expect", "", "Expected root element local name")
	_ = checkCmd.MarkFlagRequired("expect")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(out io.Writer, in io.Reader, expect string) error {
	_, err := xmlctx.ValidateRootElement(xmlctx.NewTokenSource(in), expect)
	var mismatch *xmlctx.RootElementError
	switch {
	case err == nil:
		fmt.Fprintf(out, "root element <%s> ok\n", expect)
		return nil
	case errors.Is(err, xmlctx.ErrEmptyDocument):
		return fmt.Errorf("empty document: %w", err)
	case errors.As(err, &mismatch):
		return fmt.Errorf("wrong document type: found <%s>, expected <%s>", mismatch.Actual, mismatch.Expected)
	default:
		return fmt.Errorf("malformed document: %w", err)
	}
}
