// Package report contains the aggregation engine: pure, read-only
// projections over a snapshot of ledger records. Nothing here mutates its
// input or touches the store, so callers can run these against independent
// snapshots concurrently.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/util"
)

// CategoryTotal is one per-category aggregate. Name is the first-seen
// spelling of the category; grouping itself is case-insensitive.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// Summary is the result of aggregating a record snapshot.
type Summary struct {
	Total      decimal.Decimal
	Categories []CategoryTotal
	Top        *CategoryTotal
	Count      int
}

// Total sums the amounts of the given records. Zero for an empty snapshot.
func Total(records []storage.Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount())
	}
	return total
}

// CategoryTotals groups records by category and sums their amounts. The
// result is ordered by first encounter, which makes the TopCategory
// tie-break deterministic: on equal totals the earlier-encountered
// category wins.
func CategoryTotals(records []storage.Record) []CategoryTotal {
	totals := []CategoryTotal{}
	index := map[string]int{}

	for _, r := range records {
		key := storage.CategoryKey(r.Category())
		if i, ok := index[key]; ok {
			totals[i].Total = totals[i].Total.Add(r.Amount())
			continue
		}

		index[key] = len(totals)
		totals = append(totals, CategoryTotal{
			Name:  r.Category(),
			Total: r.Amount(),
		})
	}

	return totals
}

// TopCategory returns the category with the maximal summed amount. The
// boolean is false when the snapshot is empty.
func TopCategory(records []storage.Record) (CategoryTotal, bool) {
	totals := CategoryTotals(records)
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}

	top := totals[0]
	for _, ct := range totals[1:] {
		if ct.Total.GreaterThan(top.Total) {
			top = ct
		}
	}

	return top, true
}

// Generate aggregates the full snapshot into a Summary.
func Generate(records []storage.Record) Summary {
	summary := Summary{
		Total:      Total(records),
		Categories: CategoryTotals(records),
		Count:      len(records),
	}

	if top, ok := TopCategory(records); ok {
		summary.Top = &top
	}

	return summary
}

// MonthlySummary aggregates the records whose date falls in the given
// calendar month and year.
func MonthlySummary(records []storage.Record, month time.Month, year int) Summary {
	start, end := util.GetMonthDates(int(month), year)

	filtered := []storage.Record{}
	for _, r := range records {
		if inRange(r.Date(), start, end) {
			filtered = append(filtered, r)
		}
	}

	return Generate(filtered)
}

// DateRangeFilter returns the records dated within [start, end], bounds
// inclusive. Filtering an already-filtered result with the same bounds
// returns the same set.
func DateRangeFilter(records []storage.Record, start, end time.Time) ([]storage.Record, error) {
	if err := storage.ValidateRange(start, end); err != nil {
		return nil, err
	}

	filtered := []storage.Record{}
	for _, r := range records {
		if inRange(r.Date(), start, end) {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
