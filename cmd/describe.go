package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cube2222/lazyplan/logical"
)

var describeCmd = &cobra.Command{
	Use:   "describe PLAN.yaml",
	Short: "Print the output schema of a plan.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := readPlan(args[0])
		if err != nil {
			return fmt.Errorf("couldn't read plan: %w", err)
		}
		describeSchema(cmd.OutOrStdout(), plan.Schema())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func describeSchema(w io.Writer, schema logical.Schema) {
	table := tablewriter.NewWriter(w)
	table.SetColWidth(24)
	table.SetRowLine(false)
	table.SetHeader([]string{"name", "type"})
	table.SetAutoFormatHeaders(false)
	for _, field := range schema.Fields {
		table.Append([]string{field.Name, field.Type.String()})
	}
	table.Render()
}
