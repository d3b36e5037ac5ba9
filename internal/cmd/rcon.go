package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leighmacdonald/rconwrap/internal/app"
	"github.com/leighmacdonald/rconwrap/internal/comparator"
	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/internal/health"
	"github.com/leighmacdonald/rconwrap/internal/locale"
	"github.com/leighmacdonald/rconwrap/internal/query"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var errChannelUnusable = errors.New("rcon channel is unusable")

func rconCmd() *cobra.Command {
	rcon := &cobra.Command{
		Use:   "rcon <command>",
		Short: "Run a command on the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")

			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				result, ok, errQuery := application.Executor().Query(ctx, command)
				if errQuery != nil {
					return errQuery
				}

				if !ok {
					lang := locale.Parse(application.Config().Language())
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), locale.Get(lang, locale.StartupUnusable))

					return errChannelUnusable
				}

				_, errWrite := fmt.Fprintln(cmd.OutOrStdout(), result)

				return errWrite
			})
		},
	}

	// Everything after the first word belongs to the server command.
	rcon.Flags().SetInterspersed(false)

	rcon.AddCommand(reconnectCmd())

	debug := &cobra.Command{
		Use:   "debug",
		Short: "Diagnostic commands",
	}
	debug.AddCommand(checkConfigCmd())
	debug.AddCommand(readConfigCmd())
	debug.AddCommand(builtinQueryCmd())
	debug.AddCommand(decoratorCmd())

	rcon.AddCommand(debug)

	return rcon
}

func reconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconnect",
		Short: "Force a new rcon connection, ignoring the cached health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				if errConnect := application.Executor().Reconnect(ctx); errConnect != nil {
					return errConnect
				}

				_, errWrite := fmt.Fprintln(cmd.OutOrStdout(), "Reconnected.")

				return errWrite
			})
		},
	}
}

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check_config",
		Short: "Compare the host and server credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				verdict := application.Cache().Diagnose(ctx)
				lang := locale.Parse(application.Config().Language())

				return renderCheckConfig(cmd.OutOrStdout(), lang, verdict, application.Comparator().Compare())
			})
		},
	}
}

func readConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "read_config <host|target>",
		Short:     "Show the credentials read from one side",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{domain.HostSide.String(), domain.TargetSide.String()},
		RunE: func(cmd *cobra.Command, args []string) error {
			source, errSource := domain.ParseConfigSource(args[0])
			if errSource != nil {
				return errSource
			}

			return withApp(cmd.Context(), func(_ context.Context, application *app.App) error {
				config, errRead := application.Comparator().ReadConfig(source)
				if errRead != nil {
					return errRead
				}

				_, errWrite := fmt.Fprintf(cmd.OutOrStdout(), "enable: %t\nport: %d\npassword: %s\n",
					config.Enable(), config.Port(), config.MaskedPassword())

				return errWrite
			})
		},
	}
}

func builtinQueryCmd() *cobra.Command {
	builtin := &cobra.Command{
		Use:   "builtin_query <command>",
		Short: "Send a command straight to the connection, skipping health checks and recovery",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")

			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				result, errQuery := application.Executor().Builtin(ctx, command)
				if errQuery != nil {
					return errQuery
				}

				_, errWrite := fmt.Fprintln(cmd.OutOrStdout(), result)

				return errWrite
			})
		},
	}

	builtin.Flags().SetInterspersed(false)

	return builtin
}

func decoratorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decorator",
		Short: "Run list through a result callback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				return query.WithResult(application.Executor(), "list", printResult(cmd.OutOrStdout()))(ctx)
			})
		},
	}
}

func printResult(out io.Writer) query.ResultFunc {
	return func(_ context.Context, result string, ok bool) error {
		_, errWrite := fmt.Fprintf(out, "ok: %t\nresult: %s\n", ok, result)

		return errWrite
	}
}

func renderCheckConfig(out io.Writer, lang locale.Language, verdict domain.Verdict, comparison comparator.Comparison) error {
	tbl := tablewriter.NewTable(out)
	tbl.Header("Source", "Enable", "Port", "Password", "Error")

	rows := []struct {
		source domain.ConfigSource
		config domain.RconConfig
		err    error
	}{
		{domain.HostSide, comparison.Host, comparison.HostErr},
		{domain.TargetSide, comparison.Target, comparison.TargetErr},
	}

	for _, row := range rows {
		values := []string{row.source.String(), "", "", "", ""}
		if row.err != nil {
			values[4] = row.err.Error()
		} else {
			values[1] = strconv.FormatBool(row.config.Enable())
			values[2] = strconv.Itoa(row.config.Port())
			values[3] = row.config.MaskedPassword()
		}

		if errAppend := tbl.Append(values); errAppend != nil {
			return errAppend
		}
	}

	if errRender := tbl.Render(); errRender != nil {
		return errRender
	}

	_, errWrite := fmt.Fprintf(out, "%s: %s\n", verdict, health.VerdictMessage(lang, verdict))

	return errWrite
}
