package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const (
	commandWatchtower             = "watchtower"
	commandBibleReading           = "bible-reading"
	commandCongregationBibleStudy = "congregation-bible-study"
)

var errNotImplemented = errors.New("not implemented")

// dispatch maps a task name to its runner. An empty name selects watchtower.
func dispatch(name string) (func(ctx context.Context) error, error) {
	switch name {
	case "", commandWatchtower:
		return runWatchtower, nil
	case commandBibleReading:
		return nil, fmt.Errorf("bible reading: %w", errNotImplemented)
	case commandCongregationBibleStudy:
		return nil, fmt.Errorf("congregation bible study: %w", errNotImplemented)
	}
	return nil, fmt.Errorf("unknown or undefined command: %q", name)
}

func runWatchtower(ctx context.Context) error {
	a, err := newApp(ctx, appOptions{withGenerator: true, withStore: true})
	if err != nil {
		return err
	}
	defer a.close(ctx)
	return a.runOnce(ctx)
}

var runCmd = &cobra.Command{
	Use:   "run [command]",
	Short: "Runs a task by name, the name defaults to $COMMAND and then to watchtower.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := os.Getenv("COMMAND")
		if len(args) > 0 {
			name = args[0]
		}
		runner, err := dispatch(name)
		if err != nil {
			return err
		}
		defer slog.Info("finished processing command", "command", name)
		return runner(cmd.Context())
	},
}

var watchtowerCmd = &cobra.Command{
	Use:   "watchtower",
	Short: "Processes this week's study article once.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatchtower(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchtowerCmd)
}
