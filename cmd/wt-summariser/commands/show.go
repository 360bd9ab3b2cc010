package commands

import (
	"fmt"
	"os"
	"wt-summariser/internal/cache"
	"wt-summariser/internal/study"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showWeek weekFlags

func printRecord(record study.Record) {
	fmt.Printf("%s\n%s\n\n", study.Header(record.Article), record.URL)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Paragraphs", "Question", "Answer"})
	for _, q := range record.Data.Answers {
		answer := "(missing)"
		if q.Answer != nil {
			answer = *q.Answer
		}
		t.AppendRow(table.Row{q.PNumbers(), q.QuestionText, answer})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 50},
		{Number: 3, WidthMax: 80},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if record.Data.Summary != nil {
		fmt.Printf("\nSummary:\n%s\n", *record.Data.Summary)
	} else {
		fmt.Println("\nSummary: (missing)")
	}
}

var showCmd = &cobra.Command{
	Use:   "show [--year <year>] [--week <week>]",
	Short: "Prints the record stored for a week.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{withStore: true})
		if err != nil {
			return err
		}
		defer a.close(ctx)

		week, err := showWeek.resolve(a.clock)
		if err != nil {
			return err
		}
		record, err := cache.Load(ctx, a.store, week)
		if err != nil {
			return err
		}
		printRecord(record)
		return nil
	},
}

func init() {
	showWeek.register(showCmd)
	rootCmd.AddCommand(showCmd)
}
