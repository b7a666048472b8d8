package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/testutil"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	d, err := storage.ParseDate(value)
	if err != nil {
		t.Fatalf("Failed to parse date %q: %v", value, err)
	}
	return d
}

func TestInsertAndGetRecords(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")
	ctx := context.Background()

	record, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(250), "Food", mustDate(t, "2024-03-01"), "lunch")
	if err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	if record.ID() != 1 {
		t.Errorf("first record id = %d, want 1", record.ID())
	}

	records, err := s.GetRecords(ctx, scope)
	if err != nil {
		t.Fatalf("GetRecords() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("GetRecords() returned %d records, want 1", len(records))
	}

	got := records[0]
	if !got.Amount().Equal(decimal.NewFromInt(250)) {
		t.Errorf("Amount = %s, want 250", got.Amount())
	}
	if got.Category() != "Food" {
		t.Errorf("Category = %q, want Food", got.Category())
	}
	if !got.Date().Equal(mustDate(t, "2024-03-01")) {
		t.Errorf("Date = %v, want 2024-03-01", got.Date())
	}
	if got.Note() != "lunch" {
		t.Errorf("Note = %q, want lunch", got.Note())
	}
	if got.Owner() != scope.UserID {
		t.Errorf("Owner = %d, want %d", got.Owner(), scope.UserID)
	}
}

func TestInsertValidation(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")
	ctx := context.Background()

	tests := []struct {
		name     string
		amount   decimal.Decimal
		category string
	}{
		{name: "negative amount", amount: decimal.NewFromInt(-5), category: "Food"},
		{name: "zero amount", amount: decimal.Zero, category: "Food"},
		{name: "blank category", amount: decimal.NewFromInt(5), category: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.InsertRecord(ctx, scope, tt.amount, tt.category, mustDate(t, "2024-03-01"), "")

			var validationErr *storage.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("InsertRecord() error = %v, want ValidationError", err)
			}

			records, listErr := s.GetRecords(ctx, scope)
			if listErr != nil {
				t.Fatalf("GetRecords() error = %v", listErr)
			}
			if len(records) != 0 {
				t.Errorf("store changed on validation failure: %d records", len(records))
			}
		})
	}
}

func TestIDsNeverReused(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 3; i++ {
		record, err := s.InsertRecord(ctx, scope,
			decimal.NewFromInt(10), "Food", mustDate(t, "2024-03-01"), "")
		if err != nil {
			t.Fatalf("InsertRecord() error = %v", err)
		}
		if record.ID() <= lastID {
			t.Fatalf("record id %d not greater than previous %d", record.ID(), lastID)
		}
		lastID = record.ID()
	}

	if err := s.DeleteRecord(ctx, scope, lastID); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}

	record, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(10), "Food", mustDate(t, "2024-03-01"), "")
	if err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	if record.ID() <= lastID {
		t.Errorf("deleted id %d was reused: new id %d", lastID, record.ID())
	}
}

func TestOwnerScoping(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	alice := testutil.SetupTestUser(t, s, "alice")
	bob := testutil.SetupTestUser(t, s, "bob")
	admin := storage.Scope{UserID: alice.UserID, Admin: true}
	ctx := context.Background()

	aliceRecord, err := s.InsertRecord(ctx, alice,
		decimal.NewFromInt(10), "Food", mustDate(t, "2024-03-01"), "")
	if err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	if _, err = s.InsertRecord(ctx, bob,
		decimal.NewFromInt(20), "Travel", mustDate(t, "2024-03-02"), ""); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	bobRecords, err := s.GetRecords(ctx, bob)
	if err != nil {
		t.Fatalf("GetRecords() error = %v", err)
	}
	if len(bobRecords) != 1 {
		t.Fatalf("bob sees %d records, want 1", len(bobRecords))
	}

	adminRecords, err := s.GetRecords(ctx, admin)
	if err != nil {
		t.Fatalf("GetRecords() error = %v", err)
	}
	if len(adminRecords) != 2 {
		t.Fatalf("admin sees %d records, want 2", len(adminRecords))
	}

	// Another owner's record is reported as missing, never as forbidden.
	var notFound *storage.NotFoundError

	if _, err = s.GetRecordByID(ctx, bob, aliceRecord.ID()); !errors.As(err, &notFound) {
		t.Errorf("GetRecordByID() across owners error = %v, want NotFoundError", err)
	}

	err = s.UpdateRecord(ctx, bob, aliceRecord.ID(),
		decimal.NewFromInt(1), "Food", mustDate(t, "2024-03-01"), "")
	if !errors.As(err, &notFound) {
		t.Errorf("UpdateRecord() across owners error = %v, want NotFoundError", err)
	}

	if err = s.DeleteRecord(ctx, bob, aliceRecord.ID()); !errors.As(err, &notFound) {
		t.Errorf("DeleteRecord() across owners error = %v, want NotFoundError", err)
	}

	// The invisible update must not have landed.
	unchanged, err := s.GetRecordByID(ctx, alice, aliceRecord.ID())
	if err != nil {
		t.Fatalf("GetRecordByID() error = %v", err)
	}
	if !unchanged.Amount().Equal(decimal.NewFromInt(10)) {
		t.Errorf("record changed across scopes: amount = %s", unchanged.Amount())
	}
}

func TestUpdateRecord(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")
	ctx := context.Background()

	record, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(100), "Food", mustDate(t, "2024-03-01"), "lunch")
	if err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	err = s.UpdateRecord(ctx, scope, record.ID(),
		decimal.RequireFromString("120.50"), "Dining", mustDate(t, "2024-03-02"), "dinner")
	if err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}

	updated, err := s.GetRecordByID(ctx, scope, record.ID())
	if err != nil {
		t.Fatalf("GetRecordByID() error = %v", err)
	}

	if !updated.Amount().Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("Amount = %s, want 120.50", updated.Amount())
	}
	if updated.Category() != "Dining" {
		t.Errorf("Category = %q, want Dining", updated.Category())
	}
	if updated.ID() != record.ID() {
		t.Errorf("ID changed on update: %d", updated.ID())
	}
	if updated.Owner() != scope.UserID {
		t.Errorf("Owner changed on update: %d", updated.Owner())
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")

	err := s.UpdateRecord(context.Background(), scope, 42,
		decimal.NewFromInt(1), "Food", mustDate(t, "2024-03-01"), "")

	var notFound *storage.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("UpdateRecord() error = %v, want NotFoundError", err)
	}
}

func TestGetRecordsByCategory(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")
	ctx := context.Background()

	if _, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(10), "Food", mustDate(t, "2024-03-01"), ""); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}
	if _, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(20), "food", mustDate(t, "2024-03-02"), ""); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}
	if _, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(30), "Travel", mustDate(t, "2024-03-03"), ""); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	records, err := s.GetRecordsByCategory(ctx, scope, "FOOD")
	if err != nil {
		t.Fatalf("GetRecordsByCategory() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("GetRecordsByCategory() returned %d records, want 2", len(records))
	}

	records, err = s.GetRecordsByCategory(ctx, scope, "Rent")
	if err != nil {
		t.Fatalf("GetRecordsByCategory() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("GetRecordsByCategory() on no match returned %d records, want 0", len(records))
	}
}

func TestGetRecordsFromDateRange(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")
	ctx := context.Background()

	if _, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(10), "Food", mustDate(t, "2024-01-15"), ""); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}
	if _, err := s.InsertRecord(ctx, scope,
		decimal.NewFromInt(20), "Food", mustDate(t, "2024-02-01"), ""); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	records, err := s.GetRecordsFromDateRange(ctx, scope,
		mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	if err != nil {
		t.Fatalf("GetRecordsFromDateRange() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("GetRecordsFromDateRange() returned %d records, want 1", len(records))
	}
	if !records[0].Date().Equal(mustDate(t, "2024-01-15")) {
		t.Errorf("Date = %v, want 2024-01-15", records[0].Date())
	}

	_, err = s.GetRecordsFromDateRange(ctx, scope,
		mustDate(t, "2024-02-01"), mustDate(t, "2024-01-01"))

	var validationErr *storage.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("inverted range error = %v, want ValidationError", err)
	}
}

func TestGetRecordsByDateDesc(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	scope := testutil.SetupTestUser(t, s, "alice")
	ctx := context.Background()

	for _, day := range []string{"2024-01-15", "2024-03-01", "2024-02-10"} {
		if _, err := s.InsertRecord(ctx, scope,
			decimal.NewFromInt(10), "Food", mustDate(t, day), ""); err != nil {
			t.Fatalf("InsertRecord() error = %v", err)
		}
	}

	records, err := s.GetRecordsByDateDesc(ctx, scope)
	if err != nil {
		t.Fatalf("GetRecordsByDateDesc() error = %v", err)
	}

	for i := 1; i < len(records); i++ {
		if records[i].Date().After(records[i-1].Date()) {
			t.Errorf("records not in date desc order at index %d", i)
		}
	}
}
