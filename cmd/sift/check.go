package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"sift/internal/diagfmt"
	"sift/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] path...",
	Short: "Type-check sift expressions",
	Long:  `Check analyzes query files (or a whole directory) and prints diagnostics`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", runtime.NumCPU(), "parallel workers for directory checks")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	jobs, _ := cmd.Flags().GetInt("jobs")

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	var results []driver.FileResult
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirResults, err := driver.CheckDir(cmd.Context(), arg, opts, jobs)
			if err != nil {
				return err
			}
			results = append(results, dirResults...)
			continue
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			return err
		}
		results = append(results, driver.FileResult{Path: arg, Result: driver.Analyze(string(data), opts)})
	}

	failed := false
	colored := useColor(cmd, os.Stderr)
	for _, fr := range results {
		if fr.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fr.Path, fr.Err)
			failed = true
			continue
		}
		bag := fr.Result.Bag
		if bag.Len() == 0 {
			continue
		}
		if bag.HasErrors() {
			failed = true
		}
		switch format {
		case "json":
			if err := diagfmt.JSON(os.Stdout, bag, fr.Result.Text, diagfmt.JSONOpts{
				Path:         fr.Path,
				IncludeNotes: true,
			}); err != nil {
				return err
			}
		default:
			diagfmt.Pretty(os.Stderr, bag, fr.Result.Text, diagfmt.PrettyOpts{
				Color:     colored,
				Path:      fr.Path,
				ShowNotes: true,
			})
		}
	}
	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}
