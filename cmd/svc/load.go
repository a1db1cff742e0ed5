package svc

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"speckeeper/internal/config"
	"speckeeper/internal/spec"
	"speckeeper/services"
)

var (
	loadGroup       string
	loadAppEnv      string
	loadURL         string
	loadChannel     string
	loadTopology    string
	loadStrategy    string
	loadBinds       []string
	loadBindingMode string
	loadConfigFrom  string
)

var loadCmd = &cobra.Command{
	Use:   "load <origin/name[/version[/release]]>",
	Short: "Load or update a service spec",
	Long:  "Build a load request from the flags, apply it to the named package's spec (expanding composites into member specs), validate it against the installed package and write the spec file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := loadSpec(context.Background(), cmd, args[0]); err != nil {
			fmt.Println(err)
		}
	},
}

func init() {
	Cmd.AddCommand(loadCmd)
	loadCmd.Flags().SortFlags = false
	loadCmd.Flags().StringVar(&loadGroup, "group", "", "Service group name")
	loadCmd.Flags().StringVar(&loadAppEnv, "app-env", "", "Application environment (app.env)")
	loadCmd.Flags().StringVarP(&loadURL, "url", "u", config.Config.Bldr.URL, "Builder endpoint")
	loadCmd.Flags().StringVar(&loadChannel, "channel", config.Config.Bldr.Channel, "Builder channel")
	loadCmd.Flags().StringVarP(&loadTopology, "topology", "t", "", "Topology (standalone/leader)")
	loadCmd.Flags().StringVarP(&loadStrategy, "strategy", "s", "", "Update strategy (none/at-once/rolling)")
	loadCmd.Flags().StringArrayVar(&loadBinds, "bind", nil, "Bind, <bind>:<service_group> or <service>:<bind>:<service_group>; repeatable")
	loadCmd.Flags().StringVar(&loadBindingMode, "binding-mode", "", "Binding mode (strict/relaxed)")
	loadCmd.Flags().StringVar(&loadConfigFrom, "config-from", "", "Development-only template override directory")
}

/**
 * Build and apply a load request
 * @param {context.Context} ctx - Context for request cancellation and timeout
 * @param {*cobra.Command} cmd - Command whose flag state shapes the request
 * @param {string} identStr - Target package identifier
 * @returns {error} Returns error if parsing, validation or persistence fails
 */
func loadSpec(ctx context.Context, cmd *cobra.Command, identStr string) error {
	req, err := buildLoadRequest(cmd, identStr)
	if err != nil {
		return err
	}
	result, err := services.GetSpecManager().Load(req)
	if err != nil {
		return fmt.Errorf("load %s failed: %w", identStr, err)
	}
	switch loaded := result.(type) {
	case spec.ServiceOnly:
		fmt.Printf("Loaded spec for %s\n", loaded.Service.Ident)
	case spec.Composite:
		fmt.Printf("Loaded composite %s with %d member specs\n",
			loaded.Descriptor.Name(), len(loaded.Members))
	}
	return nil
}

func buildLoadRequest(cmd *cobra.Command, identStr string) (*spec.LoadRequest, error) {
	ident, err := spec.ParsePackageIdent(identStr)
	if err != nil {
		return nil, err
	}
	req := &spec.LoadRequest{Ident: ident}
	if loadGroup != "" {
		req.Group = &loadGroup
	}
	if loadAppEnv != "" {
		appEnv, err := spec.ParseApplicationEnvironment(loadAppEnv)
		if err != nil {
			return nil, err
		}
		req.ApplicationEnvironment = &appEnv
	}
	// url and channel carry config-derived defaults, so non-empty is not
	// the same as operator-set. Only flags the operator actually passed go
	// into the request; an untouched flag must not overwrite a field the
	// existing spec already persisted.
	if cmd.Flags().Changed("url") {
		req.BldrURL = &loadURL
	}
	if cmd.Flags().Changed("channel") {
		req.Channel = &loadChannel
	}
	if loadTopology != "" {
		var t spec.Topology
		if err := t.UnmarshalText([]byte(loadTopology)); err != nil {
			return nil, err
		}
		req.Topology = &t
	}
	if loadStrategy != "" {
		var u spec.UpdateStrategy
		if err := u.UnmarshalText([]byte(loadStrategy)); err != nil {
			return nil, err
		}
		req.UpdateStrategy = &u
	}
	if loadBindingMode != "" {
		var m spec.BindingMode
		if err := m.UnmarshalText([]byte(loadBindingMode)); err != nil {
			return nil, err
		}
		req.BindingMode = &m
	}
	if loadConfigFrom != "" {
		req.ConfigFrom = &loadConfigFrom
	}
	if loadBinds != nil {
		binds := make([]spec.ServiceBind, 0, len(loadBinds))
		for _, raw := range loadBinds {
			b, err := spec.ParseServiceBind(raw)
			if err != nil {
				return nil, err
			}
			binds = append(binds, b)
		}
		req.Binds = binds
	}
	return req, nil
}
