package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sift/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive type explorer",
	Long:  `Repl shows the inferred type and diagnostics of an expression as you type`,
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("repl needs a terminal")
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	program := tea.NewProgram(ui.NewREPL(opts))
	_, err = program.Run()
	return err
}
