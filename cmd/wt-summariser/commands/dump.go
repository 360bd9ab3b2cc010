package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"wt-summariser/internal/pipeline"
	"wt-summariser/internal/study"

	"github.com/spf13/cobra"
)

var (
	dumpWeek    weekFlags
	dumpSummary bool
	dumpJSON    bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump [--year <year>] [--week <week>] [--summary] [--json]",
	Short: "Correlates a week's article and prints what would be sent for generation.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{})
		if err != nil {
			return err
		}
		defer a.close(ctx)

		week, err := dumpWeek.resolve(a.clock)
		if err != nil {
			return err
		}
		article, questions, err := pipeline.Correlate(ctx, a.source, a.cfg.Wol.BaseURL, week, a.tel)
		if err != nil {
			return err
		}

		if dumpJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(study.Record{
				Article: article,
				Data:    study.RecordData{Answers: questions},
			})
		}

		header := study.Header(article)
		if dumpSummary {
			fmt.Printf("%s\n\n%s\n", header, study.RenderAll(questions, study.ModeSummary))
			return nil
		}
		for _, q := range questions {
			fmt.Printf("%s\n\n%s\n\n----\n\n", header, study.Render(q, study.ModeFull))
		}
		return nil
	},
}

func init() {
	dumpWeek.register(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpSummary, "summary", false, "Print the summary render instead of one full render per question.")
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print the correlated questions as json.")
	rootCmd.AddCommand(dumpCmd)
}
