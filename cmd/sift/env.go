package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sift/internal/builtins"
	"sift/internal/types"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the variables and types visible to queries",
	Long:  `Env prints the merged environment: built-ins plus the --env manifest`,
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

func init() {
	envCmd.Flags().Bool("builtins", false, "include the built-in registry in the listing")
}

func runEnv(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	withBuiltins, _ := cmd.Flags().GetBool("builtins")

	scope := opts.Scope
	if scope.Variables == nil {
		scope = types.NewScope()
	}
	if withBuiltins {
		scope = builtins.Scope().Merge(scope)
	}

	colored := useColor(cmd, os.Stdout)
	nameStyle := color.New(color.FgCyan, color.Bold)
	deprecatedStyle := color.New(color.Faint, color.CrossedOut)

	fmt.Println("variables:")
	for _, name := range sortedNames(scope.Variables) {
		v := scope.Variables[name]
		label := name
		if colored {
			if v.Deprecated {
				label = deprecatedStyle.Sprint(name)
			} else {
				label = nameStyle.Sprint(name)
			}
		}
		fmt.Printf("  %s: %s\n", label, types.Details(v.Type))
	}

	fmt.Println("types:")
	for _, name := range sortedNames(scope.Types) {
		td := scope.Types[name]
		label := name
		if colored {
			label = nameStyle.Sprint(name)
		}
		fmt.Printf("  %s (%d methods)\n", label, len(td.Methods))
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
