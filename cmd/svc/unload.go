package svc

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"speckeeper/services"
)

var unloadCmd = &cobra.Command{
	Use:   "unload <name>",
	Short: "Remove a service spec",
	Long:  "Remove the spec file for a package name; a composite name removes the descriptor and every member spec",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := unloadSpec(context.Background(), args[0]); err != nil {
			fmt.Println(err)
		}
	},
}

func init() {
	Cmd.AddCommand(unloadCmd)
}

func unloadSpec(ctx context.Context, name string) error {
	if err := services.GetSpecManager().Unload(name); err != nil {
		return fmt.Errorf("unload %s failed: %w", name, err)
	}
	fmt.Printf("Unloaded %s\n", name)
	return nil
}
