package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sift/internal/diagfmt"
	"sift/internal/driver"
	"sift/internal/types"
)

var typeCmd = &cobra.Command{
	Use:   "type [flags] expression",
	Short: "Print the inferred type of an expression",
	Long:  `Type resolves one expression (from the argument or stdin) and prints its type`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runType,
}

func init() {
	typeCmd.Flags().Uint32("at", 0, "byte offset to query instead of the whole expression")
	typeCmd.Flags().Bool("quiet", false, "suppress diagnostics, print only the type")
}

func runType(cmd *cobra.Command, args []string) error {
	src, err := readExpression(args)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	result := driver.Analyze(src, opts)

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet && result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.Text, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}

	def := result.RootType()
	if offset, _ := cmd.Flags().GetUint32("at"); offset > 0 {
		def = result.TypeAt(offset)
	}
	fmt.Fprintln(os.Stdout, types.Details(def))
	return nil
}

func readExpression(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading expression from stdin: %w", err)
	}
	src := strings.TrimSpace(string(data))
	if src == "" {
		return "", fmt.Errorf("no expression given")
	}
	return src, nil
}
