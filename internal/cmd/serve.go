package cmd

import (
	"context"

	"github.com/leighmacdonald/rconwrap/internal/app"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the rconwrap http api",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				return application.Serve(ctx)
			})
		},
	}
}
