package commands

import (
	"github.com/spf13/cobra"

	"ollama-chat/cmd/internal/clients/chatclient"
)

func newModelsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the backend offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.api.Ollama.GetModels(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Names())
		},
	}
}

func newChatCmd(e *env) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send one message straight to the model; nothing is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.api.Ollama.SendMessage(cmd.Context(), args[0], chatclient.WithModel(model))
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "model to chat with (default: client default)")
	return cmd
}
