package commands

import (
	"fmt"

	"pocheclient/lib/scrapers/wallabag/probe"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(testCmd)
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Checks that the configured server, credentials and session work.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		err = enableDump()
		if err != nil {
			return err
		}

		code, err := probe.TestConnection(cmd.Context(), cfg.ClientOptions())
		if err != nil {
			return fmt.Errorf("reach server: %w", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Endpoint", "Code", "Result"})
		t.AppendRow(table.Row{cfg.Endpoint, int(code), code.String()})
		t.Render()
		return nil
	},
}
