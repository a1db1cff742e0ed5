package svc

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"speckeeper/internal/spec"
	"speckeeper/services"
)

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Set a spec's desired state to up",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setDesiredState(context.Background(), args[0], spec.DesiredUp); err != nil {
			fmt.Println(err)
		}
	},
}

func init() {
	Cmd.AddCommand(startCmd)
}

// setDesiredState flips the persisted desired state; the process supervisor
// picks the change up from the spec file, this command never touches
// processes itself.
func setDesiredState(ctx context.Context, name string, state spec.DesiredState) error {
	if err := services.GetSpecManager().SetDesiredState(name, state); err != nil {
		return err
	}
	fmt.Printf("%s desired state set to %s\n", name, state)
	return nil
}
