// Package export implements the fixed CSV serialization of ledger records:
// a required header followed by rows in the order id,amount,category,date,note.
// The csv storage backend and the export command share this codec.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/storage"
)

// Header is the required first row of the record CSV format.
var Header = []string{"id", "amount", "category", "date", "note"}

const (
	numFields   = 5
	colID       = 0
	colAmount   = 1
	colCategory = 2
	colDate     = 3
	colNote     = 4

	base10 = 10
)

// Write serializes records to w, header first. Amounts are written as plain
// decimal strings, dates as YYYY-MM-DD.
func Write(w io.Writer, records []storage.Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, Header)

	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID(), base10),
			r.Amount().String(),
			r.Category(),
			r.Date().Format(storage.DateFormat),
			r.Note(),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}

	return nil
}

// Read parses the record CSV format from r. The header row is required and
// its field order is fixed. Owner is set to the given owner id for every
// record; the file format itself is single-owner.
func Read(r io.Reader, owner int64) ([]storage.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading record CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("record CSV is missing its header row")
	}
	if !slices.Equal(rows[0], Header) {
		return nil, fmt.Errorf("record CSV must start with the header %q, got %q",
			strings.Join(Header, ","), strings.Join(rows[0], ","))
	}

	records := make([]storage.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, rowErr := unmarshalRow(row, owner)
		if rowErr != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, rowErr)
		}
		records = append(records, record)
	}

	return records, nil
}

func unmarshalRow(row []string, owner int64) (storage.Record, error) {
	id, err := strconv.ParseInt(row[colID], base10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", row[colID], err)
	}

	amount, err := decimal.NewFromString(row[colAmount])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", row[colAmount], err)
	}

	date, err := storage.ParseDate(row[colDate])
	if err != nil {
		return nil, err
	}

	return storage.NewRecord(id, amount, row[colCategory], date, row[colNote], owner), nil
}
