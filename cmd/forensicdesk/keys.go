package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the effective key bindings",
	Long: `Print every key binding after applying [[keybindings]] overrides from
the config file. The output uses the same scope and action names the
config file accepts.`,
	RunE: runKeys,
}

func runKeys(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := keyRegistry(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, o := range reg.Export() {
		fmt.Fprintf(out, "%-10s %-16s %s\n", o.Scope, o.Action, strings.Join(o.Keys, ", "))
	}
	return nil
}
