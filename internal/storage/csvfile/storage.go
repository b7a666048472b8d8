// Package csvfile implements the single-user ledger store on top of the
// fixed CSV serialization format. Every mutation rewrites the file through
// an atomic temp-file-and-rename, so callers never observe a partial write.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/export"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

// implicitOwner owns every record in the single-user file format.
const implicitOwner = int64(0)

type csvStorage struct {
	path string

	// mu serializes every mutation so concurrent inserts cannot allocate
	// the same id from a stale max scan.
	mu sync.Mutex

	// nextID is the allocation watermark. It only grows, so ids deleted
	// during the process lifetime are never handed out again. After a
	// restart it is re-derived from the surviving rows.
	nextID int64
}

// New opens the csv ledger store at path. The file is created with its
// header row by ApplyMigrations.
func New(path string) storage.Storage {
	return &csvStorage{path: path}
}

// ApplyMigrations creates the file with its header row when missing.
func (s *csvStorage) ApplyMigrations(ctx context.Context, logger *logger.Logger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &storage.TransportError{Op: "stat", Err: err}
	}

	logger.Info("Creating ledger file", "path", s.path)

	return s.save(ctx, []storage.Record{})
}

func (s *csvStorage) InsertRecord(
	ctx context.Context,
	_ storage.Scope,
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

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	id := s.allocateID(records)
	record := storage.NewRecord(id, amount, category, date, note, implicitOwner)

	if err := s.save(ctx, append(records, record)); err != nil {
		return nil, err
	}

	s.nextID = id
	return record, nil
}

func (s *csvStorage) GetRecords(ctx context.Context, _ storage.Scope) ([]storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *csvStorage) GetRecordsByDateDesc(ctx context.Context, scope storage.Scope) ([]storage.Record, error) {
	records, err := s.GetRecords(ctx, scope)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date().After(records[j].Date())
	})

	return records, nil
}

func (s *csvStorage) GetRecordByID(ctx context.Context, _ storage.Scope, id int64) (storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		if r.ID() == id {
			return r, nil
		}
	}

	return nil, &storage.NotFoundError{}
}

func (s *csvStorage) UpdateRecord(
	ctx context.Context,
	_ storage.Scope,
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

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i, r := range records {
		if r.ID() == id {
			records[i] = storage.NewRecord(id, amount, category, date, note, r.Owner())
			return s.save(ctx, records)
		}
	}

	return &storage.NotFoundError{}
}

func (s *csvStorage) DeleteRecord(ctx context.Context, _ storage.Scope, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i, r := range records {
		if r.ID() == id {
			// Remember the watermark so the deleted id is not reused by
			// a later insert in this process.
			if s.nextID < id {
				s.nextID = id
			}
			return s.save(ctx, append(records[:i], records[i+1:]...))
		}
	}

	return &storage.NotFoundError{}
}

func (s *csvStorage) GetRecordsByCategory(
	ctx context.Context,
	scope storage.Scope,
	category string,
) ([]storage.Record, error) {
	records, err := s.GetRecords(ctx, scope)
	if err != nil {
		return nil, err
	}

	key := storage.CategoryKey(category)
	matches := []storage.Record{}
	for _, r := range records {
		if storage.CategoryKey(r.Category()) == key {
			matches = append(matches, r)
		}
	}

	return matches, nil
}

func (s *csvStorage) GetRecordsFromDateRange(
	ctx context.Context,
	scope storage.Scope,
	start, end time.Time,
) ([]storage.Record, error) {
	if err := storage.ValidateRange(start, end); err != nil {
		return nil, err
	}

	records, err := s.GetRecords(ctx, scope)
	if err != nil {
		return nil, err
	}

	matches := []storage.Record{}
	for _, r := range records {
		if !r.Date().Before(start) && !r.Date().After(end) {
			matches = append(matches, r)
		}
	}

	return matches, nil
}

func (s *csvStorage) Close() error {
	return nil
}

func (s *csvStorage) allocateID(records []storage.Record) int64 {
	next := s.nextID
	for _, r := range records {
		if r.ID() > next {
			next = r.ID()
		}
	}
	return next + 1
}

// load must be called with mu held.
func (s *csvStorage) load(ctx context.Context) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &storage.TransportError{Op: "read", Err: err}
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, &storage.TransportError{Op: "read", Err: err}
	}
	defer file.Close()

	records, err := export.Read(file, implicitOwner)
	if err != nil {
		return nil, &storage.TransportError{Op: "read", Err: err}
	}

	return records, nil
}

// save writes the full collection to a temp file in the same directory and
// renames it over the ledger file. Must be called with mu held.
func (s *csvStorage) save(ctx context.Context, records []storage.Record) error {
	if err := ctx.Err(); err != nil {
		return &storage.TransportError{Op: "write", Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &storage.TransportError{Op: "write", Err: err}
	}

	if err := export.Write(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &storage.TransportError{Op: "write", Err: err}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &storage.TransportError{Op: "write", Err: err}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &storage.TransportError{Op: "write", Err: err}
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &storage.TransportError{Op: "write", Err: fmt.Errorf("failed to replace ledger file: %w", err)}
	}

	return nil
}
