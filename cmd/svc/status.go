package svc

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"speckeeper/services"
)

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show one spec in detail",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := specStatus(context.Background(), args[0]); err != nil {
			fmt.Println(err)
		}
	},
}

func init() {
	Cmd.AddCommand(statusCmd)
}

/**
 * Print the full detail of one loaded spec
 * @param {context.Context} ctx - Context for request cancellation and timeout
 * @param {string} name - Package name
 * @returns {error} Returns error if no spec is loaded under that name
 * @description
 * - Shows identity, source coordinates, topology and update policy
 * - Shows each declared bind in grammar form
 * - Flags specs whose ident is newer than the installed package
 */
func specStatus(ctx context.Context, name string) error {
	manager := services.GetSpecManager()

	s, ok := manager.Get(name)
	if !ok {
		return fmt.Errorf("no spec loaded for %q", name)
	}
	fmt.Printf("Ident:           %s\n", s.Ident)
	fmt.Printf("Group:           %s\n", s.Group)
	if s.ApplicationEnvironment != nil {
		fmt.Printf("App/Env:         %s\n", s.ApplicationEnvironment)
	}
	fmt.Printf("Builder:         %s (channel %s)\n", s.BldrURL, s.Channel)
	fmt.Printf("Topology:        %s\n", s.Topology)
	fmt.Printf("Update strategy: %s\n", s.UpdateStrategy)
	fmt.Printf("Binding mode:    %s\n", s.BindingMode)
	fmt.Printf("Desired state:   %s\n", s.DesiredState)
	if s.Composite != "" {
		fmt.Printf("Composite:       %s\n", s.Composite)
	}
	if s.ConfigFrom != "" {
		fmt.Printf("Config from:     %s\n", s.ConfigFrom)
	}
	for _, b := range s.Binds {
		fmt.Printf("Bind:            %s\n", b)
	}
	if newer, err := manager.WantsNewerPackage(name); err == nil && newer {
		fmt.Println("Note: spec asks for a newer build than the installed package")
	}
	return nil
}
