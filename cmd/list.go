package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taskworks/jobrun/internal/argparse"
	"github.com/taskworks/jobrun/internal/param"
)

// listCmd prints every registered module and its functions.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered modules and their functions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, module := range registry.Modules() {
			fmt.Fprintf(w, "%s\n", module)
			for _, t := range registry.Tasks(module) {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", t.Name, t.Usage, flagSummary(t.Signature()))
			}
		}
		return w.Flush()
	},
}

// flagSummary renders the task's flags in one line, required first.
func flagSummary(sig *param.Signature) string {
	out := ""
	for _, pr := range sig.Params {
		if pr.Required {
			out += "--" + pr.Flag + " "
		}
	}
	for _, pr := range sig.Params {
		if !pr.Required {
			out += "[--" + pr.Flag + "] "
		}
	}
	return out + "[--" + argparse.DebugFlag + "]"
}

func init() {
	rootCmd.AddCommand(listCmd)
}
