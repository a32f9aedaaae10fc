package commands

import (
	"omnivox-backend/cmd/omnivox-cli/globals"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(institutionsCmd)
}

var institutionsCmd = &cobra.Command{
	Use:   "institutions",
	Short: "List the institutions that can be pulled from.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		registry := globals.Get(cmd.Context()).Registry

		t := newTable(cmd.OutOrStdout(), "Institutions")
		t.AppendHeader(table.Row{"Id", "Name", "Driver", "Portal"})
		for _, id := range registry.Institutions() {
			inst, _ := registry.Institution(id)
			t.AppendRow(table.Row{id, inst.DisplayName, inst.Driver, inst.BaseUrl})
		}
		t.Render()
	},
}
