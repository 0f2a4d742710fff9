package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/logbuf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logbuf: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "logbuf",
		Short:         "Bounded log buffer and live inspector",
		Long:          "logbuf tails a log file (or its own demo producers) into a bounded in-memory buffer and shows it in a filtered, ordered terminal view.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInspectCommand())
	root.AddCommand(newDumpCommand())
	return root
}

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   "Open the live inspector",
		Aliases: []string{"tui"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			prefsPath, _ := cmd.Flags().GetString("prefs")
			logFile, _ := cmd.Flags().GetString("file")
			poll, _ := cmd.Flags().GetDuration("poll")
			demo, _ := cmd.Flags().GetBool("demo")
			workers, _ := cmd.Flags().GetInt("workers")
			diagPath, _ := cmd.Flags().GetString("diagnostics")

			opts := app.Options{
				ConfigPath:  configPath,
				PrefsPath:   prefsPath,
				LogFile:     logFile,
				PollEvery:   poll,
				Demo:        demo,
				DemoWorkers: workers,
			}
			if diagPath != "" {
				f, err := os.OpenFile(diagPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open diagnostics log: %w", err)
				}
				defer f.Close()
				opts.Diagnostics = f
			}
			return app.Run(cmd.Context(), opts)
		},
	}
	cmd.Flags().String("config", "", "config file (.toml or .json5); defaults to ~/.config/logbuf/config.toml")
	cmd.Flags().String("prefs", "", "UI preferences file; defaults to ~/.config/logbuf/prefs.toml")
	cmd.Flags().String("file", "", "log file to follow (overrides log_file)")
	cmd.Flags().Duration("poll", 0, "poll interval, e.g. 500ms (overrides poll_interval)")
	cmd.Flags().Bool("demo", false, "record synthetic entries from demo workers")
	cmd.Flags().Int("workers", 2, "number of demo workers")
	cmd.Flags().String("diagnostics", "", "also write logbuf's own log output to this file")
	return cmd
}

func newDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the buffered view of a log file and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.DumpOptions{Location: time.Local}
			opts.ConfigPath, _ = cmd.Flags().GetString("config")
			opts.LogFile, _ = cmd.Flags().GetString("file")
			opts.Order, _ = cmd.Flags().GetString("order")
			opts.MinSeverity, _ = cmd.Flags().GetString("min-severity")
			opts.Filter, _ = cmd.Flags().GetString("filter")
			opts.Limit, _ = cmd.Flags().GetInt("limit")
			if cmd.Flags().Changed("buffer-limit") {
				n, _ := cmd.Flags().GetInt("buffer-limit")
				opts.BufferLimit = &n
			}
			return app.Dump(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().String("config", "", "config file (.toml or .json5)")
	cmd.Flags().String("file", "", "log file to read (overrides log_file)")
	cmd.Flags().String("order", "", "asc or desc (defaults to the configured order)")
	cmd.Flags().String("min-severity", "", "hide entries below verbose|debug|info|warn|error")
	cmd.Flags().String("filter", "", "CEL filter expression, e.g. 'severity >= 3'")
	cmd.Flags().Int("limit", 0, "lines to read from the end of the file; 0 uses tail_lines, -1 reads all")
	cmd.Flags().Int("buffer-limit", 0, "buffer capacity; 0 is unbounded")
	return cmd
}
