package commands

import (
	"fmt"
	"wt-summariser/internal/components/chrono"

	"github.com/spf13/cobra"
)

type weekFlags struct {
	year int
	week int
}

func (w *weekFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&w.year, "year", 0, "ISO year, defaults to the current one.")
	cmd.Flags().IntVar(&w.week, "week", 0, "ISO week, defaults to the current one.")
}

// resolve fills unset fields from the current week.
func (w weekFlags) resolve(clock chrono.API) (chrono.Week, error) {
	week := chrono.CurrentWeek(clock)
	if w.year != 0 {
		week.Year = w.year
	}
	if w.week != 0 {
		week.Week = w.week
	}
	if week.Week < 1 || week.Week > 53 {
		return chrono.Week{}, fmt.Errorf("week %d is out of range", week.Week)
	}
	return week, nil
}
