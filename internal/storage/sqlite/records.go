package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/storage"
)

func (s *sqliteStorage) InsertRecord(
	ctx context.Context,
	scope storage.Scope,
	amount decimal.Decimal,
	category string,
	date time.Time,
	note string,
) (storage.Record, error) {
	if err := storage.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if err := storage.ValidateCategory(category); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO records (amount, category, category_key, date, note, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		amount.String(), category, storage.CategoryKey(category),
		date.Format(storage.DateFormat), note, scope.UserID)
	if err != nil {
		return nil, &storage.TransportError{Op: "insert record", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &storage.TransportError{Op: "insert record", Err: err}
	}

	return storage.NewRecord(id, amount, category, date, note, scope.UserID), nil
}

func (s *sqliteStorage) GetRecords(ctx context.Context, scope storage.Scope) ([]storage.Record, error) {
	query, args := scopedQuery(scope, "", "")
	return s.queryRecords(ctx, "get records", query, args...)
}

func (s *sqliteStorage) GetRecordsByDateDesc(ctx context.Context, scope storage.Scope) ([]storage.Record, error) {
	query, args := scopedQuery(scope, "", "ORDER BY date DESC, id DESC")
	return s.queryRecords(ctx, "get records", query, args...)
}

func (s *sqliteStorage) GetRecordByID(ctx context.Context, scope storage.Scope, id int64) (storage.Record, error) {
	query, args := scopedQuery(scope, "id = ?", "")
	args = append(args, id)

	row := s.db.QueryRowContext(ctx, query, args...)
	return recordFromRow(row.Scan)
}

func (s *sqliteStorage) UpdateRecord(
	ctx context.Context,
	scope storage.Scope,
	id int64,
	amount decimal.Decimal,
	category string,
	date time.Time,
	note string,
) error {
	if err := storage.ValidateAmount(amount); err != nil {
		return err
	}
	if err := storage.ValidateCategory(category); err != nil {
		return err
	}

	query := `UPDATE records SET amount = ?, category = ?, category_key = ?, date = ?, note = ?
		 WHERE id = ?`
	args := []any{
		amount.String(), category, storage.CategoryKey(category),
		date.Format(storage.DateFormat), note, id,
	}
	if !scope.Admin {
		query += " AND user_id = ?"
		args = append(args, scope.UserID)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &storage.TransportError{Op: "update record", Err: err}
	}

	return requireRowsAffected(result, "update record")
}

func (s *sqliteStorage) DeleteRecord(ctx context.Context, scope storage.Scope, id int64) error {
	query := "DELETE FROM records WHERE id = ?"
	args := []any{id}
	if !scope.Admin {
		query += " AND user_id = ?"
		args = append(args, scope.UserID)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &storage.TransportError{Op: "delete record", Err: err}
	}

	return requireRowsAffected(result, "delete record")
}

func (s *sqliteStorage) GetRecordsByCategory(
	ctx context.Context,
	scope storage.Scope,
	category string,
) ([]storage.Record, error) {
	query, args := scopedQuery(scope, "category_key = ?", "")
	args = append(args, storage.CategoryKey(category))
	return s.queryRecords(ctx, "get records by category", query, args...)
}

func (s *sqliteStorage) GetRecordsFromDateRange(
	ctx context.Context,
	scope storage.Scope,
	start, end time.Time,
) ([]storage.Record, error) {
	if err := storage.ValidateRange(start, end); err != nil {
		return nil, err
	}

	query, args := scopedQuery(scope, "date BETWEEN ? AND ?", "")
	args = append(args, start.Format(storage.DateFormat), end.Format(storage.DateFormat))
	return s.queryRecords(ctx, "get records from date range", query, args...)
}

// scopedQuery builds the SELECT with the caller's visibility predicate
// first, so an unprivileged scope can never address another owner's rows.
func scopedQuery(scope storage.Scope, predicate, order string) (string, []any) {
	query := "SELECT id, amount, category, date, note, user_id FROM records"
	args := []any{}
	clauses := []string{}

	if !scope.Admin {
		clauses = append(clauses, "user_id = ?")
		args = append(args, scope.UserID)
	}
	if predicate != "" {
		clauses = append(clauses, predicate)
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	if order != "" {
		query += " " + order
	}

	return query, args
}

func (s *sqliteStorage) queryRecords(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]storage.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &storage.TransportError{Op: op, Err: err}
	}
	defer rows.Close()

	records := []storage.Record{}

	for rows.Next() {
		record, recordErr := recordFromRow(rows.Scan)
		if recordErr != nil {
			return nil, recordErr
		}
		records = append(records, record)
	}

	if rows.Err() != nil {
		return nil, &storage.TransportError{Op: op, Err: rows.Err()}
	}

	return records, nil
}

func recordFromRow(scan func(dest ...any) error) (storage.Record, error) {
	var id int64
	var amountStr string
	var category string
	var dateStr string
	var note string
	var userID int64

	if err := scan(&id, &amountStr, &category, &dateStr, &note, &userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, &storage.TransportError{Op: "scan record", Err: err}
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, &storage.TransportError{Op: "scan record", Err: err}
	}

	date, err := time.Parse(storage.DateFormat, dateStr)
	if err != nil {
		return nil, &storage.TransportError{Op: "scan record", Err: err}
	}

	return storage.NewRecord(id, amount, category, date.UTC(), note, userID), nil
}

func requireRowsAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return &storage.TransportError{Op: op, Err: err}
	}

	if affected == 0 {
		return &storage.NotFoundError{}
	}

	return nil
}
