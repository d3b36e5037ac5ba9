// Package cmd implements the CLI (Command Line Interface) of the application.
//
// rcon <command> - Run a command through the guarded executor
// rcon reconnect - Force a new rcon connection
// rcon debug check_config - Compare host and server credentials and report a verdict
// rcon debug read_config <host|target> - Show the credentials read from one side
// rcon debug builtin_query <command> - Send a command straight to the connection
// rcon debug decorator - Run list through a result callback
// serve - Serve the http api
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/leighmacdonald/rconwrap/internal/app"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	"github.com/spf13/cobra"
)

var cfgFile string //nolint:gochecknoglobals

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "rconwrap",
	Short: "Guarded rcon queries with config drift detection",
	Long: `rconwrap runs rcon commands against a game server with a bounded wait,
a single automatic reconnect and a check that the credentials in rconwrap.yml
agree with the ones in server.properties.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	setupCLI()

	if errExecute := rootCmd.Execute(); errExecute != nil {
		os.Exit(1)
	}
}

func setupCLI() {
	if app.BuildVersion == "" {
		app.BuildVersion = "master"
	}

	rootCmd.Version = app.BuildVersion
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(rconCmd())
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is rconwrap.yml in . or $HOME)")
}

// withApp initialises the app, runs fn and shuts everything down again.
func withApp(ctx context.Context, fn func(ctx context.Context, application *app.App) error) error {
	application := app.New(cfgFile)

	defer func() {
		if errClose := application.Close(); errClose != nil {
			slog.Error("Error closing", log.ErrAttr(errClose))
		}
	}()

	if errInit := application.Init(ctx); errInit != nil {
		return errInit
	}

	return fn(ctx, application)
}
