package commands

import (
	"github.com/spf13/cobra"

	"ollama-chat/cmd/internal/clients/chatclient"
	"ollama-chat/models"
)

func newConversationsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage conversations through the primary API",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.api.Conversations.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show one conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := e.api.Conversations.Get(cmd.Context(), id)
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
			out, err := e.api.Conversations.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	var title string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a conversation; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var data models.ConversationUpdate
			if cmd.Flags().Changed("title") {
				data.Title = &title
			}
			out, err := e.api.Conversations.Update(cmd.Context(), id, data)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	update.Flags().StringVar(&title, "title", "", "new title")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return e.api.Conversations.Delete(cmd.Context(), id)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "messages ID",
		Short: "List the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := e.api.Conversations.GetMessages(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	})

	var model string
	add := &cobra.Command{
		Use:   "add ID CONTENT",
		Short: "Add a message and let the model answer it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := e.api.Conversations.AddMessage(cmd.Context(), id, args[1], chatclient.WithModel(model))
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	add.Flags().StringVar(&model, "model", "", "model to answer with (default: client default)")
	cmd.AddCommand(add)

	return cmd
}
