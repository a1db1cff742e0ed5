package svc

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"speckeeper/internal/spec"
)

var stopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Set a spec's desired state to down",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setDesiredState(context.Background(), args[0], spec.DesiredDown); err != nil {
			fmt.Println(err)
		}
	},
}

func init() {
	Cmd.AddCommand(stopCmd)
}
