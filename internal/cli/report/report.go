package report

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/spendlog/spendlog/internal/cli"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/logger"
	internalReport "github.com/spendlog/spendlog/internal/report"
	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/util"
)

type reportCommand struct {
	month int
	year  int
}

func NewCommand() cli.Command {
	return &reportCommand{}
}

func (c *reportCommand) Description() string {
	return "Summarizes spending for a month or a whole year"
}

func (c *reportCommand) SetFlags(fset *flag.FlagSet) {
	fset.IntVar(&c.month, "month", -1, "month to summarize (1-12)")
	fset.IntVar(&c.year, "year", -1, "year to summarize")
}

func (c *reportCommand) Run(
	ctx context.Context,
	_ *config.Config,
	s storage.Storage,
	scope storage.Scope,
	_ *logger.Logger,
) error {
	records, err := s.GetRecords(ctx, scope)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	var summary internalReport.Summary
	var title string

	switch {
	case c.month == -1 && c.year == -1:
		// Default to the previous month.
		month, year := previousMonth(now)
		summary = internalReport.MonthlySummary(records, month, year)
		title = fmt.Sprintf("%s %d", month, year)
	case c.month >= 1 && c.month <= 12:
		year := c.year
		if year <= 0 {
			year = now.Year()
		}
		summary = internalReport.MonthlySummary(records, time.Month(c.month), year)
		title = fmt.Sprintf("%s %d", time.Month(c.month), year)
	case c.month <= 0 && c.year > 0:
		start, end := util.GetYearDates(c.year)
		filtered, filterErr := internalReport.DateRangeFilter(records, start, end)
		if filterErr != nil {
			return filterErr
		}
		summary = internalReport.Generate(filtered)
		title = fmt.Sprintf("%d", c.year)
	default:
		return &storage.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}

	render(title, summary)
	return nil
}

// previousMonth returns the calendar month before the one containing now.
// Anchoring on the first of the month matters: AddDate(0, -1, 0) normalizes
// on month-end days, so on Mar 31 it would land back in March.
func previousMonth(now time.Time) (time.Month, int) {
	first := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	return first.Month(), first.Year()
}

func render(title string, summary internalReport.Summary) {
	fmt.Println(util.ColorOutput(title, "bold", "underline"))
	fmt.Printf("Expenses: %d\n", summary.Count)
	fmt.Printf("Total: %s\n", util.ColorOutput(util.FormatAmount(summary.Total), "red"))

	if summary.Top != nil {
		fmt.Printf("Top category: %s (%s)\n",
			util.ColorOutput(summary.Top.Name, "bold"),
			util.FormatAmount(summary.Top.Total))
	}

	for _, ct := range summary.Categories {
		fmt.Printf("  %s\t%s\n", ct.Name, util.FormatAmount(ct.Total))
	}
}
