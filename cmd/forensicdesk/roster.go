package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/forensicdesk/internal/database/repository"
)

var rosterEnabledOnly bool

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print the examiner roster",
	RunE:  runRoster,
}

func init() {
	rosterCmd.Flags().BoolVar(&rosterEnabledOnly, "enabled", false, "Only list enabled examiners")
}

func runRoster(cmd *cobra.Command, _ []string) error {
	e, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	list := e.roster.List()
	if rosterEnabledOnly {
		list = e.roster.Enabled()
	}
	fmt.Fprintln(cmd.OutOrStdout(), rosterTable(list))
	fmt.Fprintf(cmd.OutOrStdout(), "%d examiners\n", len(list))
	return nil
}

func rosterTable(list []repository.Examiner) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "BADGE", "UNIT", "CONTACT", "STATUS")
	for _, ex := range list {
		t.Row(strconv.Itoa(ex.ID), ex.Name, ex.BadgeNumber, ex.UnitName, ex.Contact, string(ex.Status))
	}
	return t.String()
}
