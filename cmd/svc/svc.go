package svc

import (
	"speckeeper/cmd/root"

	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "svc",
	Short: "Manage service specs",
	Long:  "Load, update, inspect and remove the spec files that describe which services should run",
}

func init() {
	root.RootCmd.AddCommand(Cmd)
}
