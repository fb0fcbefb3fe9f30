package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/config"
	"github.com/BuzzLyutic/todo-list/internal/logging"
	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/taskclient"
	"github.com/BuzzLyutic/todo-list/internal/todolist"
	"github.com/BuzzLyutic/todo-list/internal/ui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := viper.New()
	var envFile, filter string

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "todo is a terminal client for a remote task list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := model.ParseFilter(filter)
			if !ok {
				return fmt.Errorf("unknown filter %q: want all, completed or pending", filter)
			}
			cfg, err := config.Load(v, envFile)
			if err != nil {
				return err
			}
			return run(cfg, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to read before the environment")
	flags.StringVar(&filter, "filter", string(model.FilterAll), "initial filter: all, completed or pending")
	flags.String("url", "", "task collection URL (default http://localhost:8080/api/tasks/)")
	flags.Duration("timeout", 0, "per-request timeout (default 10s)")
	flags.String("log-file", "", "log file (default todo.log)")
	flags.String("log-level", "", "log level (default info)")

	// the UI owns the terminal, so logs go to a file unless told otherwise
	v.SetDefault("log_file", "todo.log")
	for key, flag := range map[string]string{
		"tasks_url":       "url",
		"request_timeout": "timeout",
		"log_file":        "log-file",
		"log_level":       "log-level",
	} {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(flag)))
	}
	return cmd
}

func run(cfg config.Config, filter model.Filter) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := taskclient.New(cfg.TasksURL, taskclient.WithLogger(logger))
	if err != nil {
		return err
	}

	ctl := todolist.New(client,
		todolist.WithLogger(logger),
		todolist.WithRequestTimeout(cfg.RequestTimeout),
	)
	ctl.SetFilter(filter)

	logger.Info("starting", zap.String("tasks_url", cfg.TasksURL))
	if _, err := tea.NewProgram(ui.New(ctl), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
