package storage

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/logger"
)

// DateFormat is the wire format for record dates. Records carry a calendar
// date only; the time-of-day component is always UTC midnight.
const DateFormat = "2006-01-02"

// Scope is the visibility context a caller presents to the store. An admin
// scope sees every owner's records; otherwise only records whose owner
// matches UserID are visible. The single-user csv backend uses the implicit
// owner id 0.
type Scope struct {
	UserID int64
	Admin  bool
}

// ImplicitScope is the scope used by single-user backends.
var ImplicitScope = Scope{UserID: 0}

type Record interface {
	ID() int64
	Amount() decimal.Decimal
	Category() string
	Date() time.Time
	Note() string
	Owner() int64
}

type record struct {
	id       int64
	amount   decimal.Decimal
	category string
	date     time.Time
	note     string
	owner    int64
}

func NewRecord(id int64, amount decimal.Decimal, category string, date time.Time, note string, owner int64) Record {
	return &record{
		id:       id,
		amount:   amount,
		category: category,
		date:     date,
		note:     note,
		owner:    owner,
	}
}

func (r *record) ID() int64               { return r.id }
func (r *record) Amount() decimal.Decimal { return r.amount }
func (r *record) Category() string        { return r.category }
func (r *record) Date() time.Time         { return r.date }
func (r *record) Note() string            { return r.note }
func (r *record) Owner() int64            { return r.owner }

type User interface {
	ID() int64
	Username() string
	PasswordHash() string
	Admin() bool
	CreatedAt() time.Time
}

type user struct {
	id           int64
	username     string
	passwordHash string
	admin        bool
	createdAt    time.Time
}

func NewUser(id int64, username, passwordHash string, admin bool, createdAt time.Time) User {
	return &user{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		admin:        admin,
		createdAt:    createdAt,
	}
}

func (u *user) ID() int64            { return u.id }
func (u *user) Username() string     { return u.username }
func (u *user) PasswordHash() string { return u.passwordHash }
func (u *user) Admin() bool          { return u.admin }
func (u *user) CreatedAt() time.Time { return u.createdAt }

type Session interface {
	ID() string
	UserID() int64
	ExpiresAt() time.Time
	CreatedAt() time.Time
}

type session struct {
	id        string
	userID    int64
	expiresAt time.Time
	createdAt time.Time
}

func NewSession(id string, userID int64, expiresAt, createdAt time.Time) Session {
	return &session{
		id:        id,
		userID:    userID,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

func (s *session) ID() string           { return s.id }
func (s *session) UserID() int64        { return s.userID }
func (s *session) ExpiresAt() time.Time { return s.expiresAt }
func (s *session) CreatedAt() time.Time { return s.createdAt }

// Storage is the ledger store: durable CRUD over expense records with
// store-assigned, monotonically increasing ids and owner-scoped visibility.
// Empty results are normal values, never errors. Mutating operations either
// fully land or leave the previous state untouched.
type Storage interface {
	ApplyMigrations(ctx context.Context, logger *logger.Logger) error

	InsertRecord(
		ctx context.Context,
		scope Scope,
		amount decimal.Decimal,
		category string,
		date time.Time,
		note string,
	) (Record, error)
	GetRecords(ctx context.Context, scope Scope) ([]Record, error)
	GetRecordsByDateDesc(ctx context.Context, scope Scope) ([]Record, error)
	GetRecordByID(ctx context.Context, scope Scope, id int64) (Record, error)
	UpdateRecord(
		ctx context.Context,
		scope Scope,
		id int64,
		amount decimal.Decimal,
		category string,
		date time.Time,
		note string,
	) error
	DeleteRecord(ctx context.Context, scope Scope, id int64) error
	GetRecordsByCategory(ctx context.Context, scope Scope, category string) ([]Record, error)
	GetRecordsFromDateRange(ctx context.Context, scope Scope, start, end time.Time) ([]Record, error)

	Close() error
}

// UserStorage and SessionStorage are implemented by multi-user backends
// only. The csv backend has a single implicit owner and implements neither.
type UserStorage interface {
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	SetAdmin(ctx context.Context, userID int64, admin bool) error
	CountAdmins(ctx context.Context) (int64, error)
}

type SessionStorage interface {
	CreateSession(ctx context.Context, userID int64, sessionID string, expiresAt time.Time) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// ValidateAmount enforces the amount invariant shared by every backend.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return nil
}

// ValidateCategory rejects empty or blank category labels.
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	return nil
}

// ParseDate parses a calendar date in the fixed YYYY-MM-DD format.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "must match YYYY-MM-DD"}
	}
	return date.UTC(), nil
}

// ValidateRange enforces the inclusive-range invariant start <= end.
func ValidateRange(start, end time.Time) error {
	if start.After(end) {
		return &ValidationError{Field: "date range", Reason: "start must not be after end"}
	}
	return nil
}

// CategoryKey is the canonical grouping key for a category label. Category
// comparison is case-insensitive throughout; the first-seen spelling is
// kept for display.
func CategoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
