package cmd

import (
	"io"

	"github.com/nanovms/hvctl/types"
	"github.com/olekukonko/tablewriter"
	"github.com/ttacon/chalk"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	colors := make([]tablewriter.Colors, len(header))
	for i := range colors {
		colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}
	}
	table.SetHeaderColor(colors...)
	table.SetAutoWrapText(false)
	return table
}

func colorState(state types.VMState) string {
	switch state {
	case types.StateRunning:
		return chalk.Green.Color(state.String())
	case types.StateStopped:
		return chalk.Red.Color(state.String())
	case types.StatePaused, types.StateSuspended:
		return chalk.Yellow.Color(state.String())
	}
	return state.String()
}
