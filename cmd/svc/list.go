package svc

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"speckeeper/services"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded service specs",
	Long:  "List every spec in the watch directory with its desired state, channel and composite membership",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listSpecs(context.Background()); err != nil {
			fmt.Println(err)
		}
	},
}

func init() {
	Cmd.AddCommand(listCmd)
}

func listSpecs(ctx context.Context) error {
	manager := services.GetSpecManager()

	specs := manager.Specs()
	if len(specs) == 0 {
		fmt.Println("No specs loaded")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tIDENT\tGROUP\tCHANNEL\tDESIRED\tCOMPOSITE")
	for _, s := range specs {
		composite := s.Composite
		if composite == "" {
			composite = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Ident.Name, s.Ident, s.Group, s.Channel, s.DesiredState, composite)
	}
	return w.Flush()
}
