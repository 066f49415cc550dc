package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newServiceCmd exposes the message-role chat service client.
func newServiceCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Call the message-role chat service",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show a conversation with its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := e.svc.GetConversation(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.svc.ListConversations(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create TITLE",
		Short: "Create a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.svc.CreateConversation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename ID TITLE",
		Short: "Change the title of a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return e.svc.UpdateConversationTitle(cmd.Context(), id, args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save-user ID CONTENT",
		Short: "Store a user message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := e.svc.SaveUserMessage(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save-assistant ID CONTENT",
		Short: "Store an assistant message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := e.svc.SaveAssistantMessage(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.svc.GetAvailableModels(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Names())
		},
	})

	var model string
	stream := &cobra.Command{
		Use:   "stream-url ID",
		Short: "Print the reply stream URL of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), e.svc.StreamURL(id, model))
			return err
		},
	}
	stream.Flags().StringVar(&model, "model", "", "model to stream from (default: client default)")
	cmd.AddCommand(stream)

	return cmd
}
