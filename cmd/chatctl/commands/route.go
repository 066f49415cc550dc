package commands

import (
	"github.com/spf13/cobra"

	"ollama-chat/cmd/web/navigation"
)

func newRouteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "route PATH",
		Short: "Resolve a navigation path to its view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := navigation.Default(e.cfg.Routes.Assistant).Resolve(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, m)
		},
	}
}
