package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ollama-chat/cmd/internal/clients/chatclient"
	"ollama-chat/cmd/internal/clients/chatserviceclient"
	"ollama-chat/cmd/internal/trace"
	"ollama-chat/config"
	"ollama-chat/models"
)

// env carries the clients shared by every subcommand. They are built once in
// the root's PersistentPreRunE, after flags have been applied.
type env struct {
	cfg config.AppConfig
	api *chatclient.Client
	svc *chatserviceclient.Client
}

// NewRootCmd instantiates the chatctl command tree on top of cfg.
func NewRootCmd(cfg config.AppConfig) *cobra.Command {
	e := &env{cfg: cfg}
	var opts struct {
		BaseURL    string
		Variant    string
		BasePath   string
		ServiceURL string
		Model      string
	}

	cmd := &cobra.Command{
		Use:          "chatctl",
		Short:        "Talk to the conversation service from a terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.BaseURL != "" {
				e.cfg.API.BaseURL = opts.BaseURL
			}
			if opts.Variant != "" {
				e.cfg.API.Variant = opts.Variant
			}
			if opts.BasePath != "" {
				e.cfg.API.BasePath = opts.BasePath
			}
			if opts.ServiceURL != "" {
				e.cfg.ChatService.BaseURL = opts.ServiceURL
			}
			if opts.Model != "" {
				e.cfg.DefaultModel = opts.Model
			}

			api, err := chatclient.FromConfig(e.cfg)
			if err != nil {
				return err
			}
			e.api = api
			e.svc = chatserviceclient.FromConfig(e.cfg)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(trace.WithRequestAndSpan(ctx, trace.GenerateID(), 0))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.BaseURL, "base-url", "", "base URL of the conversation API (overrides api.base_url)")
	flags.StringVar(&opts.Variant, "variant", "", "API path variant: proxied (/back) or direct")
	flags.StringVar(&opts.BasePath, "base-path", "", "explicit API path prefix, wins over --variant")
	flags.StringVar(&opts.ServiceURL, "service-url", "", "base URL of the message-role chat service")
	flags.StringVar(&opts.Model, "default-model", "", "model used when a command has no --model")

	cmd.AddCommand(
		newConversationsCmd(e),
		newModelsCmd(e),
		newChatCmd(e),
		newServiceCmd(e),
		newRouteCmd(e),
	)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

// parseID accepts numeric and opaque string ids. An id must stay a single
// path segment.
func parseID(s string) (models.ID, error) {
	id := strings.TrimSpace(s)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("invalid conversation id %q", s)
	}
	return models.ID(id), nil
}
